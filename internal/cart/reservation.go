package cart

import "salimco/pos/internal/domain"

// Pending sums the quantity of a catalog item already queued in the cart.
func Pending(items []domain.LineItem, category domain.Category, name string) int {
	pending := 0
	for _, line := range items {
		lineCategory, ok := line.Kind.Category()
		if !ok || lineCategory != category || line.Item != name {
			continue
		}
		pending += line.Quantity
	}
	return pending
}

// Available is the persisted stock minus what the cart already holds. It is
// not clamped at zero.
func Available(stock int, items []domain.LineItem, category domain.Category, name string) int {
	return stock - Pending(items, category, name)
}
