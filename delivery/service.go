package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"agromarket/models"

	"github.com/google/uuid"
)

var (
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrAlreadyAssigned      = errors.New("order already has a deliverer")
	ErrNotHomeDelivery      = errors.New("only home-delivery orders can be accepted")
	ErrNotAssignedDeliverer = errors.New("only the assigned deliverer may do this")
	ErrNotParticipant       = errors.New("not a participant of this delivery")
	ErrInvalidStatus        = errors.New("invalid delivery status change")
)

// baseDeliveryFee is a flat fee; fee-by-distance is not modeled.
const baseDeliveryFee = 5.0

// Store is the persistence contract for delivery records.
type Store interface {
	Insert(ctx context.Context, d *models.Delivery) error
	GetByID(ctx context.Context, deliveryID string) (*models.Delivery, error)
	GetByOrder(ctx context.Context, orderID string) (*models.Delivery, error)
	Update(ctx context.Context, d *models.Delivery) error
	List(ctx context.Context, status models.DeliveryStatus) ([]models.Delivery, error)
	ListByDeliverer(ctx context.Context, delivererID string, status models.DeliveryStatus) ([]models.Delivery, error)
}

// OrderStore is the slice of the order store the delivery side needs. The
// orders package's Mongo store satisfies it structurally.
type OrderStore interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	Transition(ctx context.Context, orderID string, from []models.OrderStatus, to models.OrderStatus, entry models.StatusEntry, stampDelivered bool) (bool, error)
	AssignDeliverer(ctx context.Context, orderID, delivererID string, entry models.StatusEntry) (bool, error)
	FindAvailable(ctx context.Context) ([]models.Order, error)
}

type Service struct {
	store  Store
	orders OrderStore
}

func NewService(store Store, orders OrderStore) *Service {
	return &Service{store: store, orders: orders}
}

// Accept claims an unassigned home-delivery order for the deliverer. The claim
// itself is a conditional update on the order, so two racing accepts resolve
// to exactly one winner; the loser gets ErrAlreadyAssigned.
func (s *Service) Accept(ctx context.Context, orderID, delivererID string) (*models.Delivery, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.DeliveryInfo.Method != models.DeliverHome {
		return nil, ErrNotHomeDelivery
	}
	if o.DeliveryInfo.DelivererID != "" {
		return nil, ErrAlreadyAssigned
	}

	now := time.Now()
	entry := models.StatusEntry{Status: models.OrderProcessing, Timestamp: now, UpdatedBy: delivererID}
	claimed, err := s.orders.AssignDeliverer(ctx, orderID, delivererID, entry)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrAlreadyAssigned
	}

	estimated := now.Add(2 * time.Hour)
	d := &models.Delivery{
		DeliveryID:  uuid.NewString(),
		OrderID:     orderID,
		DelivererID: delivererID,
		Status:      models.DeliveryAssigned,
		DeliveryLocation: models.Location{
			Address: formatAddress(o.DeliveryInfo.Address),
			Lat:     o.DeliveryInfo.Address.Lat,
			Lng:     o.DeliveryInfo.Address.Lng,
		},
		EstimatedTime: &estimated,
		DeliveryFee:   baseDeliveryFee,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// deliveryTransitions holds the legal forward moves of a delivery record.
// failed is reachable from anywhere via MarkFailed, never through here.
var deliveryTransitions = map[models.DeliveryStatus][]models.DeliveryStatus{
	models.DeliveryAssigned:  {models.DeliveryInTransit},
	models.DeliveryInTransit: {models.DeliveryDelivered},
}

func canMove(from, to models.DeliveryStatus) bool {
	for _, t := range deliveryTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// mirroredOrderMove maps a delivery progression onto the order lifecycle.
// The from-sets are wider than strict adjacency on purpose: a deliverer
// reporting delivered must land the order in delivered even if nobody pressed
// the intermediate shipped button.
func mirroredOrderMove(to models.DeliveryStatus) (from []models.OrderStatus, target models.OrderStatus, stamp bool, ok bool) {
	switch to {
	case models.DeliveryInTransit:
		return []models.OrderStatus{models.OrderConfirmed, models.OrderProcessing}, models.OrderShipped, false, true
	case models.DeliveryDelivered:
		return []models.OrderStatus{models.OrderProcessing, models.OrderShipped}, models.OrderDelivered, true, true
	}
	return nil, "", false, false
}

// UpdateStatus moves the delivery forward (in-transit, delivered) and mirrors
// the move onto the order. Only the assigned deliverer may call it.
func (s *Service) UpdateStatus(ctx context.Context, deliveryID string, to models.DeliveryStatus, delivererID string, proof *models.ProofOfDelivery, notes string) (*models.Delivery, error) {
	d, err := s.store.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.DelivererID != delivererID {
		return nil, ErrNotAssignedDeliverer
	}
	if !canMove(d.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, d.Status, to)
	}

	now := time.Now()
	d.Status = to
	d.UpdatedAt = now
	if notes != "" {
		d.Notes = notes
	}
	if to == models.DeliveryDelivered {
		d.ActualTime = &now
		if proof != nil {
			d.Proof = *proof
		}
	}

	if err := s.store.Update(ctx, d); err != nil {
		return nil, err
	}

	// Mirror onto the order; a miss means the order moved on its own, which is
	// logged but does not fail the delivery update.
	if from, target, stamp, ok := mirroredOrderMove(to); ok {
		entry := models.StatusEntry{Status: target, Timestamp: now, UpdatedBy: delivererID}
		matched, err := s.orders.Transition(ctx, d.OrderID, from, target, entry, stamp)
		if err != nil {
			log.Printf("delivery %s: mirror order %s to %s: %v", deliveryID, d.OrderID, target, err)
		} else if !matched {
			log.Printf("delivery %s: order %s not in a mirrorable state for %s", deliveryID, d.OrderID, target)
		}
	}

	return d, nil
}

// MarkFailed fails the delivery attached to an order, appending the note. A
// missing delivery is a no-op: cancelling an order that nobody accepted yet is
// perfectly normal.
func (s *Service) MarkFailed(ctx context.Context, orderID, note string) error {
	d, err := s.store.GetByOrder(ctx, orderID)
	if errors.Is(err, ErrDeliveryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if d.Status == models.DeliveryDelivered || d.Status == models.DeliveryFailed {
		return nil
	}

	d.Status = models.DeliveryFailed
	d.UpdatedAt = time.Now()
	if note != "" {
		if d.Notes != "" {
			d.Notes += "\n"
		}
		d.Notes += note
	}
	return s.store.Update(ctx, d)
}

// Available lists unassigned home-delivery orders any deliverer may claim.
func (s *Service) Available(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAvailable(ctx)
}

// DelivererStats summarizes a deliverer's workload.
type DelivererStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Failed     int `json:"failed"`
}

// MyDeliveries lists the deliverer's records, optionally filtered by status,
// with aggregate counters computed over the returned set.
func (s *Service) MyDeliveries(ctx context.Context, delivererID string, status models.DeliveryStatus) ([]models.Delivery, DelivererStats, error) {
	list, err := s.store.ListByDeliverer(ctx, delivererID, status)
	if err != nil {
		return nil, DelivererStats{}, err
	}

	stats := DelivererStats{Total: len(list)}
	for _, d := range list {
		switch d.Status {
		case models.DeliveryDelivered:
			stats.Completed++
		case models.DeliveryFailed:
			stats.Failed++
		default:
			stats.InProgress++
		}
	}
	return list, stats, nil
}

// Get returns one delivery. Readable by the assigned deliverer, the order's
// consumer, any producer on the order, and admins.
func (s *Service) Get(ctx context.Context, deliveryID, userID string, isAdmin bool) (*models.Delivery, error) {
	d, err := s.store.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if isAdmin || d.DelivererID == userID {
		return d, nil
	}

	o, err := s.orders.GetByID(ctx, d.OrderID)
	if err != nil {
		return nil, err
	}
	if o.ConsumerID == userID || o.HasProducer(userID) {
		return d, nil
	}
	return nil, ErrNotParticipant
}

// ListAll returns every delivery record, optionally filtered by status.
func (s *Service) ListAll(ctx context.Context, status models.DeliveryStatus) ([]models.Delivery, error) {
	return s.store.List(ctx, status)
}

func formatAddress(a models.Address) string {
	out := ""
	for _, part := range []string{a.Street, a.City, a.Region, a.PostalCode} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}
