package cart

import (
	"context"
	"testing"

	"agromarket/inventory"
	"agromarket/models"

	"github.com/stretchr/testify/assert"
)

type fakeCartStore struct {
	carts map[string]*models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*models.Cart)}
}

func (s *fakeCartStore) GetByUser(_ context.Context, userID string) (*models.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (s *fakeCartStore) Save(_ context.Context, c *models.Cart) error {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	s.carts[c.UserID] = &cp
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, userID string) error {
	if c, ok := s.carts[userID]; ok {
		c.Items = []models.CartItem{}
		c.TotalAmount = 0
	}
	return nil
}

type fakeProducts struct {
	products map[string]*models.Product
}

func newFakeProducts(ps ...*models.Product) *fakeProducts {
	f := &fakeProducts{products: make(map[string]*models.Product)}
	for _, p := range ps {
		f.products[p.ProductID] = p
	}
	return f
}

func (f *fakeProducts) GetProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	return p, nil
}

func newTestService() (*Service, *fakeCartStore, *fakeProducts) {
	store := newFakeCartStore()
	products := newFakeProducts(
		&models.Product{ProductID: "tomatoes", Name: "Tomatoes", Price: 2.5, Stock: 10},
		&models.Product{ProductID: "honey", Name: "Honey", Price: 8.0, Stock: 3},
	)
	return NewService(store, products), store, products
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("first access creates an empty cart", func(t *testing.T) {
		svc, store, _ := newTestService()
		c, err := svc.Get(ctx, "consumer-1")
		assert.NoError(t, err)
		assert.Empty(t, c.Items)
		assert.Zero(t, c.TotalAmount)
		assert.NotNil(t, store.carts["consumer-1"])
	})

	t.Run("total follows current catalog prices", func(t *testing.T) {
		svc, _, products := newTestService()
		_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
		assert.NoError(t, err)

		products.products["tomatoes"].Price = 3.0
		c, err := svc.Get(ctx, "consumer-1")
		assert.NoError(t, err)
		assert.Equal(t, 6.0, c.TotalAmount)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a line with the projected total", func(t *testing.T) {
		svc, _, _ := newTestService()
		c, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 3)
		assert.NoError(t, err)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, 3, c.Items[0].Quantity)
		assert.Equal(t, 7.5, c.TotalAmount)
	})

	t.Run("same product twice merges into one line", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
		assert.NoError(t, err)
		c, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 3)
		assert.NoError(t, err)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.AddItem(ctx, "consumer-1", "ghost", 1)
		assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 0)
		assert.Error(t, err)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites the quantity", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
		assert.NoError(t, err)

		c, err := svc.UpdateItem(ctx, "consumer-1", "tomatoes", 7)
		assert.NoError(t, err)
		assert.Equal(t, 7, c.Items[0].Quantity)
		assert.Equal(t, 17.5, c.TotalAmount)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
		assert.NoError(t, err)

		c, err := svc.UpdateItem(ctx, "consumer-1", "tomatoes", 0)
		assert.NoError(t, err)
		assert.Empty(t, c.Items)
		assert.Zero(t, c.TotalAmount)
	})

	t.Run("line must exist", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.UpdateItem(ctx, "consumer-1", "tomatoes", 2)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
	assert.NoError(t, err)
	_, err = svc.AddItem(ctx, "consumer-1", "honey", 1)
	assert.NoError(t, err)

	c, err := svc.RemoveItem(ctx, "consumer-1", "tomatoes")
	assert.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, "honey", c.Items[0].ProductID)
	assert.Equal(t, 8.0, c.TotalAmount)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
	assert.NoError(t, err)

	assert.NoError(t, svc.Clear(ctx, "consumer-1"))
	assert.Empty(t, store.carts["consumer-1"].Items)
	assert.Zero(t, store.carts["consumer-1"].TotalAmount)
}

func TestGhostProductSkipped(t *testing.T) {
	ctx := context.Background()
	svc, _, products := newTestService()
	_, err := svc.AddItem(ctx, "consumer-1", "tomatoes", 2)
	assert.NoError(t, err)
	_, err = svc.AddItem(ctx, "consumer-1", "honey", 1)
	assert.NoError(t, err)

	// Catalog entry disappears; the cart read still works, the ghost line
	// simply contributes nothing.
	delete(products.products, "honey")
	c, err := svc.Get(ctx, "consumer-1")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, c.TotalAmount)
}
