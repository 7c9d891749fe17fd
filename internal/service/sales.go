package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salimco/pos/internal/cart"
	"salimco/pos/internal/domain"
	"salimco/pos/internal/store"
	"salimco/pos/internal/xid"
)

// NewCart starts an empty receipt.
func (s *Service) NewCart() *cart.Cart {
	return cart.New(xid.Receipt(s.now()))
}

// Available is the persisted stock minus what the cart already holds.
func (s *Service) Available(ctx context.Context, c *cart.Cart, category domain.Category, name string) (int, error) {
	stock, err := s.repo.GetStock(ctx, category, name)
	if err != nil {
		return 0, fmt.Errorf("get %s stock: %w", category, err)
	}
	return cart.Available(stock, c.Items, category, name), nil
}

// AddCatalogItem puts qty units of a catalog item on the receipt at its
// current sell price.
func (s *Service) AddCatalogItem(ctx context.Context, c *cart.Cart, category domain.Category, name string, qty int) (domain.LineItem, error) {
	name = strings.TrimSpace(name)
	if qty < 1 {
		s.metrics.CartRejected("invalid_quantity")
		return domain.LineItem{}, invalid("Quantity must be at least 1")
	}

	item, err := s.repo.GetCatalogItem(ctx, category, name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.LineItem{}, fmt.Errorf("get %s %q: %w", category, name, err)
	}
	if item != nil {
		// the store may match names case-insensitively; cart lines carry the stored name
		name = item.Name
	}

	available, err := s.Available(ctx, c, category, name)
	if err != nil {
		return domain.LineItem{}, err
	}
	if item == nil || qty > available {
		s.metrics.CartRejected("insufficient_stock")
		return domain.LineItem{}, &InsufficientStockError{Category: category, Name: name, Available: available}
	}

	line := domain.LineItem{
		Kind:     category.LineKind(),
		Item:     item.Name,
		Price:    item.SellPrice,
		Quantity: qty,
	}
	c.Add(line)
	return line, nil
}

// AddAdHocCharge adds a service or used part line. It never touches stock.
func (s *Service) AddAdHocCharge(c *cart.Cart, kind domain.LineKind, text string, price decimal.Decimal) (domain.LineItem, error) {
	var fallback, priceLabel string
	switch kind {
	case domain.LineService:
		fallback, priceLabel = "Service Charge", "Service"
	case domain.LineUsedPart:
		fallback, priceLabel = "Part", "Part"
	default:
		return domain.LineItem{}, invalid("Unsupported charge type %q", kind)
	}
	price = price.Round(2)
	if !price.IsPositive() {
		s.metrics.CartRejected("invalid_price")
		return domain.LineItem{}, invalid("%s price must be positive", priceLabel)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = fallback
	}
	line := domain.LineItem{Kind: kind, Item: text, Price: price, Quantity: 1}
	c.Add(line)
	return line, nil
}

func (s *Service) RemoveLine(c *cart.Cart, index int) (domain.LineItem, error) {
	removed, err := c.Remove(index)
	if errors.Is(err, cart.ErrInvalidIndex) {
		s.metrics.CartRejected("invalid_index")
		return domain.LineItem{}, invalid("Invalid item index")
	}
	return removed, err
}

// Finalize posts the receipt to the ledger of the given kind, clears the cart
// and starts a new receipt. It returns the id of the posted receipt.
func (s *Service) Finalize(ctx context.Context, c *cart.Cart, kind domain.LedgerKind, customer string) (string, error) {
	if c.IsEmpty() {
		s.metrics.CartRejected("empty_receipt")
		return "", invalid("Receipt empty")
	}
	customer = strings.TrimSpace(customer)
	if kind.RequiresCustomer() && customer == "" {
		s.metrics.CartRejected("missing_customer")
		label := "credit"
		if kind == domain.LedgerMedGulf {
			label = kind.DisplayName()
		}
		return "", invalid("Customer name required for %s", label)
	}
	if !kind.RequiresCustomer() {
		customer = ""
	}

	receiptID := c.ReceiptID
	if receiptID == "" {
		receiptID = xid.Receipt(s.now())
	}
	lines := c.Snapshot()
	if err := s.post(ctx, kind, lines, receiptID, customer); err != nil {
		return "", err
	}

	total := c.Total()
	c.Reset(xid.Receipt(s.now()))

	s.metrics.ReceiptFinalized(string(kind), len(lines), total)
	s.log(ctx).Info("receipt finalized",
		zap.String("receipt_id", receiptID),
		zap.String("kind", string(kind)),
		zap.Int("lines", len(lines)),
		zap.String("total", total.StringFixed(2)),
	)
	return receiptID, nil
}

// post writes one ledger row per line and decrements stock for catalog lines,
// all in one transaction.
func (s *Service) post(ctx context.Context, kind domain.LedgerKind, lines []domain.LineItem, receiptID string, customer string) error {
	at := s.now()
	period := ""
	if kind.RequiresCustomer() {
		period = at.Format(domain.PeriodLayout)
	}

	var short *InsufficientStockError
	err := s.repo.WithinTx(ctx, func(repo store.Repository) error {
		for _, line := range lines {
			record := domain.LedgerRecord{
				Kind:          kind,
				LineKind:      line.Kind,
				Item:          line.Item,
				ProductName:   line.Label(),
				Price:         line.Price,
				Quantity:      line.Quantity,
				Total:         line.Total(),
				SaleDate:      at,
				ReceiptID:     receiptID,
				CustomerName:  customer,
				BillingPeriod: period,
			}
			if _, err := repo.AppendLedger(ctx, record); err != nil {
				return fmt.Errorf("append %s ledger: %w", kind, err)
			}
		}

		for _, line := range lines {
			category, ok := line.Kind.Category()
			if !ok {
				continue
			}
			err := repo.DecrementStock(ctx, category, line.Item, line.Quantity)
			if errors.Is(err, store.ErrInsufficientStock) {
				short = &InsufficientStockError{Category: category, Name: line.Item}
				return err
			}
			if err != nil {
				return fmt.Errorf("decrement %s stock: %w", category, err)
			}
		}
		return nil
	})
	if short != nil {
		if stock, stockErr := s.repo.GetStock(ctx, short.Category, short.Name); stockErr == nil {
			short.Available = stock
		}
		s.metrics.CartRejected("insufficient_stock")
		return short
	}
	return err
}
