package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salimco/pos/internal/domain"
)

func line(kind domain.LineKind, item string, price string, qty int) domain.LineItem {
	return domain.LineItem{Kind: kind, Item: item, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestCartTotalAndRemove(t *testing.T) {
	c := New("RCPT-1")
	c.Add(line(domain.LineOilChange, "5W-30", "15.00", 3))
	c.Add(line(domain.LineService, "Oil filter labor", "10.00", 1))
	c.Add(line(domain.LineProduct, "Chain", "2.25", 2))

	assert.Equal(t, "59.50", c.Total().StringFixed(2))

	removed, err := c.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "Service: Oil filter labor", removed.Label())
	assert.Len(t, c.Items, 2)
	assert.Equal(t, "49.50", c.Total().StringFixed(2))

	_, err = c.Remove(2)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = c.Remove(-1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestCartReset(t *testing.T) {
	c := New("RCPT-1")
	c.Add(line(domain.LineProduct, "Chain", "2.00", 1))
	snapshot := c.Snapshot()

	c.Reset("RCPT-2")
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "RCPT-2", c.ReceiptID)
	assert.Len(t, snapshot, 1)
	assert.True(t, c.Total().IsZero())
}

func TestPendingMatchesCategoryAndName(t *testing.T) {
	items := []domain.LineItem{
		line(domain.LineOilChange, "5W-30", "15.00", 3),
		line(domain.LineOilChange, "5W-30", "15.00", 2),
		line(domain.LineProduct, "5W-30", "9.00", 4),
		line(domain.LineWheelChange, "5W-30", "9.00", 1),
		line(domain.LineService, "5W-30", "9.00", 1),
		line(domain.LineOilChange, "10W-40", "15.00", 6),
	}

	assert.Equal(t, 5, Pending(items, domain.CategoryOil, "5W-30"))
	assert.Equal(t, 4, Pending(items, domain.CategoryProduct, "5W-30"))
	assert.Equal(t, 1, Pending(items, domain.CategoryWheel, "5W-30"))
	assert.Equal(t, 0, Pending(items, domain.CategoryWheel, "Rear"))
}

func TestAvailableIsNotClamped(t *testing.T) {
	items := []domain.LineItem{line(domain.LineOilChange, "5W-30", "15.00", 3)}

	assert.Equal(t, 7, Available(10, items, domain.CategoryOil, "5W-30"))
	assert.Equal(t, -1, Available(2, items, domain.CategoryOil, "5W-30"))
	assert.Equal(t, 10, Available(10, nil, domain.CategoryOil, "5W-30"))
}

func TestLineLabels(t *testing.T) {
	assert.Equal(t, "Chain", line(domain.LineProduct, "Chain", "1", 1).Label())
	assert.Equal(t, "Oil Change (5W-30)", line(domain.LineOilChange, "5W-30", "1", 1).Label())
	assert.Equal(t, "Wheel Change (Front)", line(domain.LineWheelChange, "Front", "1", 1).Label())
	assert.Equal(t, "Used Part: Mirror", line(domain.LineUsedPart, "Mirror", "1", 1).Label())
}
