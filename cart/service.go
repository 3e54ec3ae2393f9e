package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"agromarket/models"
)

var ErrItemNotFound = errors.New("product not in cart")

// Store persists one cart per consumer.
type Store interface {
	// GetByUser returns (nil, nil) when the consumer has no cart yet.
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, c *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

// ProductReader resolves catalog products for price projection.
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

type Service struct {
	store    Store
	products ProductReader
}

func NewService(store Store, products ProductReader) *Service {
	return &Service{store: store, products: products}
}

// Get returns the consumer's cart, lazily creating an empty one on first
// access. The total is recomputed from current catalog prices on every read.
func (s *Service) Get(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		now := time.Now()
		c = &models.Cart{UserID: userID, Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
	}
	s.recalculateTotal(ctx, c)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem merges the quantity into an existing line for the same product, or
// appends a new line. Adding the same product twice yields one line.
func (s *Service) AddItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", qty)
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	c, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &models.Cart{UserID: userID, CreatedAt: time.Now()}
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, models.CartItem{ProductID: productID, Quantity: qty, AddedAt: time.Now()})
	}

	return s.persist(ctx, c)
}

// UpdateItem overwrites the line quantity; qty <= 0 removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	c, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrItemNotFound
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrItemNotFound
	}

	if qty <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = qty
	}

	return s.persist(ctx, c)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	c, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrItemNotFound
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	return s.persist(ctx, c)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}

func (s *Service) persist(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	s.recalculateTotal(ctx, c)
	c.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// recalculateTotal projects current catalog prices over the cart lines. A
// product that no longer resolves contributes nothing rather than failing the
// whole read.
func (s *Service) recalculateTotal(ctx context.Context, c *models.Cart) {
	total := 0.0
	for _, it := range c.Items {
		p, err := s.products.GetProduct(ctx, it.ProductID)
		if err != nil {
			log.Printf("cart total: skipping product %s: %v", it.ProductID, err)
			continue
		}
		total += p.Price * float64(it.Quantity)
	}
	c.TotalAmount = total
}
