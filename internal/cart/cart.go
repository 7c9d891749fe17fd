package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"salimco/pos/internal/domain"
)

var ErrInvalidIndex = errors.New("invalid item index")

// Cart is the receipt being built in one session.
type Cart struct {
	ReceiptID string            `json:"receipt_id"`
	Items     []domain.LineItem `json:"items"`
}

func New(receiptID string) *Cart {
	return &Cart{ReceiptID: receiptID}
}

func (c *Cart) Add(line domain.LineItem) {
	c.Items = append(c.Items, line)
}

func (c *Cart) Remove(index int) (domain.LineItem, error) {
	if index < 0 || index >= len(c.Items) {
		return domain.LineItem{}, ErrInvalidIndex
	}
	removed := c.Items[index]
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return removed, nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.Total())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Reset empties the cart and starts a new receipt.
func (c *Cart) Reset(receiptID string) {
	c.Items = nil
	c.ReceiptID = receiptID
}

// Snapshot returns a copy of the line items.
func (c *Cart) Snapshot() []domain.LineItem {
	out := make([]domain.LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}
