package inventory

import (
	"context"
	"errors"
	"fmt"

	"agromarket/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductStore is the narrow slice of the product catalog the order core
// touches: read a product, and adjust its stock. DecrementStock must be a
// single conditional operation (decrement only when current stock covers qty),
// never a read-then-write pair.
type ProductStore interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) (int, error)
	IncrementStock(ctx context.Context, productID string, qty int) error
}

// Ledger coordinates stock reservations and releases for order lifecycle
// events. All stock mutation in the system goes through here.
type Ledger struct {
	products ProductStore
}

func NewLedger(products ProductStore) *Ledger {
	return &Ledger{products: products}
}

// Reserve atomically decrements stock for a validated order line and returns
// the remaining stock. Fails with ErrInsufficientStock when current stock is
// below qty, leaving the count untouched.
func (l *Ledger) Reserve(ctx context.Context, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, fmt.Errorf("reserve %s: quantity must be at least 1, got %d", productID, qty)
	}
	return l.products.DecrementStock(ctx, productID, qty)
}

// Release increments stock unconditionally. It only ever reverses a prior
// reservation (cancellation compensation), so no upper bound is checked.
func (l *Ledger) Release(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("release %s: quantity must be at least 1, got %d", productID, qty)
	}
	return l.products.IncrementStock(ctx, productID, qty)
}
