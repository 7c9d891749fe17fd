package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/store"
)

func (s *Store) ListCatalog(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error) {
	var rows []catalogRow
	err := s.db.WithContext(ctx).Table(catalogTable(category)).Order("name").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (s *Store) GetCatalogItem(ctx context.Context, category domain.Category, name string) (*domain.CatalogItem, error) {
	row, err := s.findCatalogRow(ctx, category, name)
	if err != nil {
		return nil, err
	}
	item := row.toDomain()
	return &item, nil
}

func (s *Store) GetStock(ctx context.Context, category domain.Category, name string) (int, error) {
	row, err := s.findCatalogRow(ctx, category, name)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Stock, nil
}

func (s *Store) CreateCatalogItem(ctx context.Context, category domain.Category, item domain.CatalogItem) (*domain.CatalogItem, error) {
	row := catalogRow{
		Name:      item.Name,
		BuyPrice:  item.BuyPrice,
		SellPrice: item.SellPrice,
		Stock:     item.Stock,
	}
	if err := s.db.WithContext(ctx).Table(catalogTable(category)).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s %q: %w", category, item.Name, store.ErrDuplicateName)
		}
		return nil, err
	}
	created := row.toDomain()
	return &created, nil
}

func (s *Store) UpdateCatalogItem(ctx context.Context, category domain.Category, item domain.CatalogItem) (*domain.CatalogItem, error) {
	result := s.db.WithContext(ctx).Table(catalogTable(category)).
		Where("name = ?", item.Name).
		Updates(map[string]any{
			"buy_price":  item.BuyPrice,
			"sell_price": item.SellPrice,
			"stock":      item.Stock,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetCatalogItem(ctx, category, item.Name)
}

func (s *Store) DecrementStock(ctx context.Context, category domain.Category, name string, qty int) error {
	table := catalogTable(category)
	result := s.db.WithContext(ctx).Table(table).
		Where("name = ? AND stock >= ?", name, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Table(table).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return fmt.Errorf("%s %q: %w", category, name, store.ErrInsufficientStock)
}

func (s *Store) findCatalogRow(ctx context.Context, category domain.Category, name string) (*catalogRow, error) {
	var row catalogRow
	err := s.db.WithContext(ctx).Table(catalogTable(category)).Where("name = ?", name).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
