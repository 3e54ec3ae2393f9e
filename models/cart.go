package models

import "time"

// CartItem is a single (product, quantity) line in a consumer's cart.
type CartItem struct {
	ProductID string    `json:"product" bson:"product"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// Cart is owned by exactly one consumer. TotalAmount is a projection of
// current catalog prices over the items, recomputed on every read/mutation,
// never authoritative on its own.
type Cart struct {
	UserID      string     `json:"user" bson:"user"`
	Items       []CartItem `json:"items" bson:"items"`
	TotalAmount float64    `json:"totalAmount" bson:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}
