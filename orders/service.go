package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"agromarket/inventory"
	"agromarket/models"
	"agromarket/utils"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOrderOwner     = errors.New("only the ordering consumer may do this")
	ErrAccessDenied      = errors.New("not a participant of this order")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrMissingAddress    = errors.New("home delivery requires a delivery address")
)

// ListQuery narrows order listings; zero fields are ignored.
type ListQuery struct {
	ConsumerID  string
	ProducerID  string
	DelivererID string
	Status      models.OrderStatus
	From, To    *time.Time
	Page, Limit int64
}

// Store is the persistence contract for orders. Transition and
// AssignDeliverer are conditional single-document updates; they report whether
// the precondition matched so callers can turn a lost race into a clean error
// instead of a double-applied side effect.
type Store interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	Transition(ctx context.Context, orderID string, from []models.OrderStatus, to models.OrderStatus, entry models.StatusEntry, stampDelivered bool) (bool, error)
	AssignDeliverer(ctx context.Context, orderID, delivererID string, entry models.StatusEntry) (bool, error)
	List(ctx context.Context, q ListQuery) ([]models.Order, int64, error)
	FindAvailable(ctx context.Context) ([]models.Order, error)
}

// Ledger is the stock reservation side of the order lifecycle.
type Ledger interface {
	Reserve(ctx context.Context, productID string, qty int) (int, error)
	Release(ctx context.Context, productID string, qty int) error
}

type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

// CartClearer empties a consumer's cart after checkout (best-effort).
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// DeliveryMarker fails a companion delivery when its order is cancelled.
type DeliveryMarker interface {
	MarkFailed(ctx context.Context, orderID, note string) error
}

type Service struct {
	store      Store
	products   ProductReader
	ledger     Ledger
	carts      CartClearer
	deliveries DeliveryMarker
}

func NewService(store Store, products ProductReader, ledger Ledger, carts CartClearer, deliveries DeliveryMarker) *Service {
	return &Service{store: store, products: products, ledger: ledger, carts: carts, deliveries: deliveries}
}

// SetDeliveryMarker breaks the construction cycle between orders and the
// delivery service; wired once at startup.
func (s *Service) SetDeliveryMarker(dm DeliveryMarker) {
	s.deliveries = dm
}

type LineInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type CreateInput struct {
	Items         []LineInput         `json:"items"`
	PaymentMethod string              `json:"paymentMethod"`
	DeliveryInfo  models.DeliveryInfo `json:"deliveryInfo"`
	Notes         string              `json:"notes"`
}

// Create runs the checkout: validate every line against the catalog with no
// mutation, then reserve stock line by line, then persist the order and clear
// the cart. A reservation failure midway releases the lines already taken, so
// a failed checkout never leaves stock partially decremented.
func (s *Service) Create(ctx context.Context, consumerID string, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if in.DeliveryInfo.Method == models.DeliverHome && in.DeliveryInfo.Address == (models.Address{}) {
		return nil, ErrMissingAddress
	}

	now := time.Now()
	items := make([]models.OrderItem, 0, len(in.Items))
	total := 0.0

	// Pre-check pass: resolve products and validate stock without mutating.
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity for product %s must be at least 1", line.ProductID)
		}
		p, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < line.Quantity {
			return nil, fmt.Errorf("product %s: %w", p.Name, inventory.ErrInsufficientStock)
		}
		subtotal := p.Price * float64(line.Quantity)
		total += subtotal
		items = append(items, models.OrderItem{
			ProductID:  p.ProductID,
			Name:       p.Name,
			ProducerID: p.ProducerID,
			Quantity:   line.Quantity,
			Price:      p.Price,
			Subtotal:   subtotal,
		})
	}

	// Reservation pass. The conditional decrement can still lose a race the
	// pre-check didn't see; compensate by releasing what was already taken.
	for i, it := range items {
		if _, err := s.ledger.Reserve(ctx, it.ProductID, it.Quantity); err != nil {
			for j := 0; j < i; j++ {
				if rerr := s.ledger.Release(ctx, items[j].ProductID, items[j].Quantity); rerr != nil {
					log.Printf("create order: release %s after failed reservation: %v", items[j].ProductID, rerr)
				}
			}
			return nil, err
		}
	}

	order := &models.Order{
		OrderID:       uuid.NewString(),
		OrderNumber:   utils.NewOrderNumber(now),
		ConsumerID:    consumerID,
		Items:         items,
		Status:        models.OrderPending,
		TotalAmount:   total,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		DeliveryInfo:  in.DeliveryInfo,
		Notes:         in.Notes,
		StatusHistory: []models.StatusEntry{{Status: models.OrderPending, Timestamp: now, UpdatedBy: consumerID}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// Home-delivery orders are deliberately left unassigned so they surface in
	// the deliverers' available list.
	order.DeliveryInfo.DelivererID = ""
	order.DeliveryInfo.ActualDeliveryDate = nil

	if err := s.store.Insert(ctx, order); err != nil {
		for _, it := range items {
			if rerr := s.ledger.Release(ctx, it.ProductID, it.Quantity); rerr != nil {
				log.Printf("create order: release %s after failed insert: %v", it.ProductID, rerr)
			}
		}
		return nil, err
	}

	// Cart clearing is best-effort; a failure here never rolls back the order.
	if s.carts != nil {
		if err := s.carts.Clear(ctx, consumerID); err != nil {
			log.Printf("create order %s: cart clear failed: %v", order.OrderID, err)
		}
	}

	return order, nil
}

// Get enforces participant-only visibility: consumer, any producer on the
// order, the assigned deliverer, or an admin.
func (s *Service) Get(ctx context.Context, orderID, userID string, isAdmin bool) (*models.Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.ConsumerID != userID && !o.HasProducer(userID) && o.DeliveryInfo.DelivererID != userID {
		return nil, ErrAccessDenied
	}
	return o, nil
}

// UpdateStatus applies a role-gated manual transition. Only adjacent moves in
// the transition table are accepted; terminal states reject everything.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to models.OrderStatus, actorID string) (*models.Order, error) {
	if !IsValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	now := time.Now()
	entry := models.StatusEntry{Status: to, Timestamp: now, UpdatedBy: actorID}
	matched, err := s.store.Transition(ctx, orderID, []models.OrderStatus{o.Status}, to, entry, to == models.OrderDelivered)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Someone else moved the order first.
		return nil, fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
	}

	// A manual cancel still owes the same compensation as a consumer cancel:
	// the reserved stock goes back and any companion delivery is failed.
	if to == models.OrderCancelled {
		s.compensateCancel(ctx, o, "[auto] order cancelled")
	}

	return s.store.GetByID(ctx, orderID)
}

// compensateCancel restocks every line and fails the companion delivery. The
// caller guarantees the cancelled transition matched exactly once, so the
// restock can never double-apply.
func (s *Service) compensateCancel(ctx context.Context, o *models.Order, note string) {
	// Full restock. A line whose product has since vanished is logged and
	// skipped; the remaining compensation still applies.
	for _, it := range o.Items {
		if err := s.ledger.Release(ctx, it.ProductID, it.Quantity); err != nil {
			log.Printf("cancel order %s: release %s: %v", o.OrderID, it.ProductID, err)
		}
	}

	// An already-created delivery is failed, not deleted.
	if s.deliveries != nil {
		if err := s.deliveries.MarkFailed(ctx, o.OrderID, note); err != nil {
			log.Printf("cancel order %s: mark delivery failed: %v", o.OrderID, err)
		}
	}
}

// Cancel is consumer-only and fails once the order has shipped. The
// conditional transition guarantees the compensation below runs exactly once
// even under a concurrent double-cancel.
func (s *Service) Cancel(ctx context.Context, orderID, consumerID string) (*models.Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ConsumerID != consumerID {
		return nil, ErrNotOrderOwner
	}
	if !IsCancellable(o.Status) {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.Status)
	}

	entry := models.StatusEntry{Status: models.OrderCancelled, Timestamp: time.Now(), UpdatedBy: consumerID}
	matched, err := s.store.Transition(ctx, orderID, cancellable, models.OrderCancelled, entry, false)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, fmt.Errorf("%w: order can no longer be cancelled", ErrInvalidTransition)
	}

	s.compensateCancel(ctx, o, "[auto] cancelled by the consumer")

	return s.store.GetByID(ctx, orderID)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Order, int64, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.store.List(ctx, q)
}

// HistoryStats summarizes a transaction-history page.
type HistoryStats struct {
	TotalTransactions int64                      `json:"totalTransactions"`
	TotalAmount       float64                    `json:"totalAmount"`
	ByStatus          map[models.OrderStatus]int `json:"byStatus"`
}

// History returns the role-scoped transaction listing with per-page stats.
func (s *Service) History(ctx context.Context, q ListQuery) ([]models.Order, int64, HistoryStats, error) {
	ordersPage, total, err := s.List(ctx, q)
	if err != nil {
		return nil, 0, HistoryStats{}, err
	}
	stats := HistoryStats{TotalTransactions: total, ByStatus: make(map[models.OrderStatus]int)}
	for _, o := range ordersPage {
		stats.TotalAmount += o.TotalAmount
		stats.ByStatus[o.Status]++
	}
	return ordersPage, total, stats, nil
}
