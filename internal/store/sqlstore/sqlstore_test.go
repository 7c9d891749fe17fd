package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Driver: "sqlite",
		DSN:    ":memory:",
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedItem(t *testing.T, s *Store, category domain.Category, name string, sell string, stock int) {
	t.Helper()
	_, err := s.CreateCatalogItem(context.Background(), category, domain.CatalogItem{
		Name:      name,
		BuyPrice:  decimal.RequireFromString("1.00"),
		SellPrice: decimal.RequireFromString(sell),
		Stock:     stock,
	})
	require.NoError(t, err)
}

func TestCatalogListSortedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedItem(t, s, domain.CategoryProduct, "Spark Plug", "5.00", 4)
	seedItem(t, s, domain.CategoryProduct, "Brake Pad", "12.50", 2)
	seedItem(t, s, domain.CategoryOil, "5W-30", "15.00", 10)

	products, err := s.ListCatalog(ctx, domain.CategoryProduct)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Brake Pad", products[0].Name)
	assert.Equal(t, "Spark Plug", products[1].Name)
	assert.True(t, products[0].SellPrice.Equal(decimal.RequireFromString("12.50")))

	wheels, err := s.ListCatalog(ctx, domain.CategoryWheel)
	require.NoError(t, err)
	assert.Empty(t, wheels)
}

func TestCreateCatalogItemRejectsDuplicateName(t *testing.T) {
	s := newTestStore(t)
	seedItem(t, s, domain.CategoryOil, "5W-30", "15.00", 10)

	_, err := s.CreateCatalogItem(context.Background(), domain.CategoryOil, domain.CatalogItem{Name: "5W-30"})
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	// names are scoped per category
	_, err = s.CreateCatalogItem(context.Background(), domain.CategoryProduct, domain.CatalogItem{Name: "5W-30"})
	assert.NoError(t, err)
}

func TestGetStockReturnsZeroWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	seedItem(t, s, domain.CategoryWheel, "Front 17in", "40.00", 3)

	stock, err := s.GetStock(context.Background(), domain.CategoryWheel, "Front 17in")
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	stock, err = s.GetStock(context.Background(), domain.CategoryWheel, "Rear 18in")
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	_, err = s.GetCatalogItem(context.Background(), domain.CategoryWheel, "Rear 18in")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDecrementStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedItem(t, s, domain.CategoryOil, "5W-30", "15.00", 10)

	require.NoError(t, s.DecrementStock(ctx, domain.CategoryOil, "5W-30", 3))
	stock, _ := s.GetStock(ctx, domain.CategoryOil, "5W-30")
	assert.Equal(t, 7, stock)

	err := s.DecrementStock(ctx, domain.CategoryOil, "5W-30", 8)
	assert.ErrorIs(t, err, store.ErrInsufficientStock)
	stock, _ = s.GetStock(ctx, domain.CategoryOil, "5W-30")
	assert.Equal(t, 7, stock)

	assert.NoError(t, s.DecrementStock(ctx, domain.CategoryOil, "10W-40", 1))
	assert.NoError(t, s.DecrementStock(ctx, domain.CategoryProduct, "5W-30", 1))
}

func TestUpdateCatalogItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedItem(t, s, domain.CategoryProduct, "Chain", "30.00", 1)

	updated, err := s.UpdateCatalogItem(ctx, domain.CategoryProduct, domain.CatalogItem{
		Name:      "Chain",
		BuyPrice:  decimal.RequireFromString("20.00"),
		SellPrice: decimal.RequireFromString("35.00"),
		Stock:     6,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Stock)
	assert.True(t, updated.SellPrice.Equal(decimal.RequireFromString("35")))

	_, err = s.UpdateCatalogItem(ctx, domain.CategoryProduct, domain.CatalogItem{Name: "Sprocket"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func ledgerRecord(kind domain.LedgerKind, customer string, total string, at time.Time) domain.LedgerRecord {
	amount := decimal.RequireFromString(total)
	rec := domain.LedgerRecord{
		Kind:         kind,
		LineKind:     domain.LineProduct,
		Item:         "Chain",
		ProductName:  "Chain",
		Price:        amount,
		Quantity:     1,
		Total:        amount,
		SaleDate:     at,
		ReceiptID:    "RCPT-TEST",
		CustomerName: customer,
	}
	if kind.RequiresCustomer() {
		rec.BillingPeriod = at.Format(domain.PeriodLayout)
	}
	return rec
}

func TestQueryLedgerFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)

	_, err := s.AppendLedger(ctx, ledgerRecord(domain.LedgerCash, "", "10.00", day))
	require.NoError(t, err)
	_, err = s.AppendLedger(ctx, ledgerRecord(domain.LedgerCash, "", "20.00", day.AddDate(0, 0, -1)))
	require.NoError(t, err)
	service := ledgerRecord(domain.LedgerCash, "", "7.50", day.Add(time.Hour))
	service.LineKind = domain.LineService
	service.Item = "Oil filter labor"
	service.ProductName = "Service: Oil filter labor"
	_, err = s.AppendLedger(ctx, service)
	require.NoError(t, err)

	todays, err := s.QueryLedger(ctx, domain.LedgerCash, domain.LedgerFilter{Day: "2026-10-19"})
	require.NoError(t, err)
	require.Len(t, todays, 2)
	assert.Equal(t, "Chain", todays[0].ProductName)
	assert.Equal(t, domain.LineService, todays[1].LineKind)
	assert.Equal(t, "7.50", todays[1].Total.StringFixed(2))

	services, err := s.QueryLedger(ctx, domain.LedgerCash, domain.LedgerFilter{
		Day:       "2026-10-19",
		LineKinds: []domain.LineKind{domain.LineService},
	})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Oil filter labor", services[0].Item)
}

func TestQueryLedgerByCustomer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 3, 12, 0, 0, 0, time.Local)

	for _, rec := range []domain.LedgerRecord{
		ledgerRecord(domain.LedgerCredit, "Sara", "50.00", base),
		ledgerRecord(domain.LedgerCredit, "Ali", "60.00", base.AddDate(0, 0, 2)),
		ledgerRecord(domain.LedgerCredit, "Ali", "40.00", base.AddDate(0, 0, 1)),
		ledgerRecord(domain.LedgerCredit, "Omar", "5.00", base.AddDate(0, -1, 0)),
	} {
		_, err := s.AppendLedger(ctx, rec)
		require.NoError(t, err)
	}

	records, err := s.QueryLedger(ctx, domain.LedgerCredit, domain.LedgerFilter{
		BillingPeriod: "2026-10",
		Order:         domain.OrderByCustomer,
	})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Ali", "Ali", "Sara"}, []string{records[0].CustomerName, records[1].CustomerName, records[2].CustomerName})
	assert.Equal(t, "40.00", records[0].Total.StringFixed(2))
	assert.Equal(t, "2026-10", records[2].BillingPeriod)

	cash, err := s.QueryLedger(ctx, domain.LedgerCash, domain.LedgerFilter{BillingPeriod: "2026-10"})
	require.NoError(t, err)
	assert.Empty(t, cash)
}

func TestWithinTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedItem(t, s, domain.CategoryOil, "5W-30", "15.00", 2)
	day := time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)

	err := s.WithinTx(ctx, func(repo store.Repository) error {
		if _, err := repo.AppendLedger(ctx, ledgerRecord(domain.LedgerCash, "", "15.00", day)); err != nil {
			return err
		}
		return repo.DecrementStock(ctx, domain.CategoryOil, "5W-30", 3)
	})
	assert.True(t, errors.Is(err, store.ErrInsufficientStock))

	records, err := s.QueryLedger(ctx, domain.LedgerCash, domain.LedgerFilter{Day: "2026-10-19"})
	require.NoError(t, err)
	assert.Empty(t, records)
	stock, _ := s.GetStock(ctx, domain.CategoryOil, "5W-30")
	assert.Equal(t, 2, stock)
}

func TestUsersAreCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, s.CreateUser(ctx, domain.UserAccount{Username: "Admin", Password: "hash", Role: domain.RoleAdmin}))
	assert.ErrorIs(t, s.CreateUser(ctx, domain.UserAccount{Username: "admin", Password: "x", Role: domain.RoleCashier}), store.ErrDuplicateName)

	user, err := s.FindUser(ctx, "  ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	require.NoError(t, s.UpdateUserPassword(ctx, "admin", "new-hash"))
	user, err = s.FindUser(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.Password)

	_, err = s.FindUser(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateUserPassword(ctx, "ghost", "x"), store.ErrNotFound)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: "postgres"})
	assert.Error(t, err)
}
