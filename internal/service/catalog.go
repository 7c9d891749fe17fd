package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/store"
)

// Catalog lists every category. Buy prices are hidden from cashiers.
func (s *Service) Catalog(ctx context.Context) (domain.CatalogListing, error) {
	actor, _ := ActorFromContext(ctx)

	var listing domain.CatalogListing
	for _, category := range domain.Categories {
		items, err := s.repo.ListCatalog(ctx, category)
		if err != nil {
			return domain.CatalogListing{}, fmt.Errorf("list %s catalog: %w", category, err)
		}
		if !actor.IsAdmin() {
			for i := range items {
				items[i].BuyPrice = decimal.Zero
			}
		}
		listing.Set(category, items)
	}
	return listing, nil
}

// Inventory is the admin view of the catalog, filtered by a case-insensitive
// name substring.
func (s *Service) Inventory(ctx context.Context, query string) (domain.CatalogListing, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.CatalogListing{}, err
	}
	listing, err := s.Catalog(ctx)
	if err != nil {
		return domain.CatalogListing{}, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return listing, nil
	}
	filter := func(items []domain.CatalogItem) []domain.CatalogItem {
		out := make([]domain.CatalogItem, 0, len(items))
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), query) {
				out = append(out, item)
			}
		}
		return out
	}
	return domain.CatalogListing{
		Products: filter(listing.Products),
		Oils:     filter(listing.Oils),
		Wheels:   filter(listing.Wheels),
	}, nil
}

func (s *Service) CreateCatalogItem(ctx context.Context, category domain.Category, input domain.CatalogItemInput) (domain.CatalogItem, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.CatalogItem{}, err
	}
	item, err := validateCatalogInput(category, input)
	if err != nil {
		return domain.CatalogItem{}, err
	}

	created, err := s.repo.CreateCatalogItem(ctx, category, item)
	if errors.Is(err, store.ErrDuplicateName) {
		return domain.CatalogItem{}, &DuplicateNameError{Category: category, Name: item.Name}
	}
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("create %s: %w", category, err)
	}
	return *created, nil
}

func (s *Service) UpdateCatalogItem(ctx context.Context, category domain.Category, input domain.CatalogItemInput) (domain.CatalogItem, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.CatalogItem{}, err
	}
	item, err := validateCatalogInput(category, input)
	if err != nil {
		return domain.CatalogItem{}, err
	}

	updated, err := s.repo.UpdateCatalogItem(ctx, category, item)
	if errors.Is(err, store.ErrNotFound) {
		return domain.CatalogItem{}, invalid("%s '%s' not found", category.Title(), item.Name)
	}
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("update %s: %w", category, err)
	}
	return *updated, nil
}

func validateCatalogInput(category domain.Category, input domain.CatalogItemInput) (domain.CatalogItem, error) {
	if _, ok := domain.ParseCategory(string(category)); !ok {
		return domain.CatalogItem{}, invalid("Unknown category %q", category)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.CatalogItem{}, invalid("%s name is required", category.Title())
	}
	if input.BuyPrice.IsNegative() || input.SellPrice.IsNegative() {
		return domain.CatalogItem{}, invalid("Prices cannot be negative")
	}
	if input.Stock < 0 {
		return domain.CatalogItem{}, invalid("Stock cannot be negative")
	}
	return domain.CatalogItem{
		Name:      name,
		BuyPrice:  input.BuyPrice.Round(2),
		SellPrice: input.SellPrice.Round(2),
		Stock:     input.Stock,
	}, nil
}
