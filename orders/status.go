package orders

import "agromarket/models"

// transitions is the canonical adjacency graph for order status changes.
// The lifecycle moves strictly forward; cancelled is reachable from any
// non-terminal state; delivered and cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// cancellable lists the states a consumer may still cancel from. Shipped
// orders are past the point of no return.
var cancellable = []models.OrderStatus{
	models.OrderPending,
	models.OrderConfirmed,
	models.OrderProcessing,
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderDelivered || s == models.OrderCancelled
}

func IsCancellable(s models.OrderStatus) bool {
	for _, c := range cancellable {
		if c == s {
			return true
		}
	}
	return false
}

func IsValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}
