package store

import (
	"context"
	"errors"

	"salimco/pos/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("duplicate name")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	ListCatalog(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error)
	GetCatalogItem(ctx context.Context, category domain.Category, name string) (*domain.CatalogItem, error)
	GetStock(ctx context.Context, category domain.Category, name string) (int, error)
	CreateCatalogItem(ctx context.Context, category domain.Category, item domain.CatalogItem) (*domain.CatalogItem, error)
	UpdateCatalogItem(ctx context.Context, category domain.Category, item domain.CatalogItem) (*domain.CatalogItem, error)
	// DecrementStock lowers stock only when enough is on hand. A missing item
	// is a no-op; an item with too little stock yields ErrInsufficientStock.
	DecrementStock(ctx context.Context, category domain.Category, name string, qty int) error

	AppendLedger(ctx context.Context, record domain.LedgerRecord) (*domain.LedgerRecord, error)
	QueryLedger(ctx context.Context, kind domain.LedgerKind, filter domain.LedgerFilter) ([]domain.LedgerRecord, error)

	FindUser(ctx context.Context, username string) (*domain.UserAccount, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, user domain.UserAccount) error
	UpdateUserPassword(ctx context.Context, username string, password string) error

	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}
