package inventory

import (
	"context"
	"sync"
	"testing"

	"agromarket/models"

	"github.com/stretchr/testify/assert"
)

// memProducts mimics the conditional stock semantics of the Mongo store: the
// decrement only applies while stock still covers the quantity.
type memProducts struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newMemProducts(ps ...*models.Product) *memProducts {
	m := &memProducts{products: make(map[string]*models.Product)}
	for _, p := range ps {
		m.products[p.ProductID] = p
	}
	return m
}

func (m *memProducts) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return 0, ErrProductNotFound
	}
	if p.Stock < qty {
		return 0, ErrInsufficientStock
	}
	p.Stock -= qty
	return p.Stock, nil
}

func (m *memProducts) IncrementStock(_ context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock += qty
	return nil
}

func (m *memProducts) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements and returns remaining stock", func(t *testing.T) {
		store := newMemProducts(&models.Product{ProductID: "p1", Stock: 10})
		ledger := NewLedger(store)

		remaining, err := ledger.Reserve(ctx, "p1", 3)
		assert.NoError(t, err)
		assert.Equal(t, 7, remaining)
	})

	t.Run("fails when stock is short and leaves it untouched", func(t *testing.T) {
		store := newMemProducts(&models.Product{ProductID: "p1", Stock: 2})
		ledger := NewLedger(store)

		_, err := ledger.Reserve(ctx, "p1", 5)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, store.stock("p1"))
	})

	t.Run("unknown product", func(t *testing.T) {
		ledger := NewLedger(newMemProducts())
		_, err := ledger.Reserve(ctx, "ghost", 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		store := newMemProducts(&models.Product{ProductID: "p1", Stock: 10})
		ledger := NewLedger(store)

		_, err := ledger.Reserve(ctx, "p1", 0)
		assert.Error(t, err)
		assert.Equal(t, 10, store.stock("p1"))
	})
}

// Two buyers race for overlapping stock: exactly one reservation wins and the
// count never goes negative.
func TestReserveConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newMemProducts(&models.Product{ProductID: "p1", Stock: 10})
	ledger := NewLedger(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Reserve(ctx, "p1", 6)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 4, store.stock("p1"))
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	store := newMemProducts(&models.Product{ProductID: "p1", Stock: 4})
	ledger := NewLedger(store)

	assert.NoError(t, ledger.Release(ctx, "p1", 3))
	assert.Equal(t, 7, store.stock("p1"))

	assert.ErrorIs(t, ledger.Release(ctx, "ghost", 1), ErrProductNotFound)
}
