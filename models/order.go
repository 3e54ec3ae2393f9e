package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment methods accepted at checkout.
const (
	PayCard           = "card"
	PayMobileMoney    = "mobile-money"
	PayCashOnDelivery = "cash-on-delivery"
)

// Delivery methods.
const (
	DeliverHome        = "home-delivery"
	DeliverPickupPoint = "pickup-point"
	DeliverFarmPickup  = "farm-pickup"
)

// OrderItem snapshots product id, producer, quantity and unit price at
// order-creation time. Later catalog price changes never touch placed orders.
type OrderItem struct {
	ProductID  string  `json:"product" bson:"product"`
	Name       string  `json:"name" bson:"name"`
	ProducerID string  `json:"producer" bson:"producer"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	Price      float64 `json:"price" bson:"price"`
	Subtotal   float64 `json:"subtotal" bson:"subtotal"`
}

type Address struct {
	Street     string  `json:"street,omitempty" bson:"street,omitempty"`
	City       string  `json:"city,omitempty" bson:"city,omitempty"`
	Region     string  `json:"region,omitempty" bson:"region,omitempty"`
	PostalCode string  `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Lat        float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

type DeliveryInfo struct {
	Method                string     `json:"method" bson:"method"`
	Address               Address    `json:"address,omitempty" bson:"address,omitempty"`
	DelivererID           string     `json:"deliverer,omitempty" bson:"deliverer,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty" bson:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actualDeliveryDate,omitempty" bson:"actualDeliveryDate,omitempty"`
}

// StatusEntry is one append-only statusHistory record. Entries are never
// rewritten or pruned after insertion.
type StatusEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	UpdatedBy string      `json:"updatedBy" bson:"updatedBy"`
}

// Order is the central aggregate: identity is immutable after creation,
// status/paymentStatus/deliveryInfo mutate through the lifecycle controller.
type Order struct {
	OrderID       string        `json:"orderId" bson:"orderId"`
	OrderNumber   string        `json:"orderNumber" bson:"orderNumber"`
	ConsumerID    string        `json:"consumer" bson:"consumer"`
	Items         []OrderItem   `json:"items" bson:"items"`
	Status        OrderStatus   `json:"status" bson:"status"`
	TotalAmount   float64       `json:"totalAmount" bson:"totalAmount"`
	PaymentMethod string        `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	DeliveryInfo  DeliveryInfo  `json:"deliveryInfo" bson:"deliveryInfo"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	StatusHistory []StatusEntry `json:"statusHistory" bson:"statusHistory"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// HasProducer reports whether the given producer owns any line of the order.
func (o *Order) HasProducer(producerID string) bool {
	for _, it := range o.Items {
		if it.ProducerID == producerID {
			return true
		}
	}
	return false
}
