package models

import "time"

type DeliveryStatus string

const (
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryInTransit DeliveryStatus = "in-transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

type Location struct {
	Address string  `json:"address,omitempty" bson:"address,omitempty"`
	Lat     float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// ProofOfDelivery holds opaque references (path/URL) to artifacts stored
// elsewhere; contents are never validated here.
type ProofOfDelivery struct {
	Signature string `json:"signature,omitempty" bson:"signature,omitempty"`
	Photo     string `json:"photo,omitempty" bson:"photo,omitempty"`
}

// Delivery is created when a deliverer accepts an unassigned home-delivery
// order, 1:1 with that order. Only the assigned deliverer mutates it; failed
// is terminal, records are never deleted.
type Delivery struct {
	DeliveryID       string          `json:"deliveryId" bson:"deliveryId"`
	OrderID          string          `json:"order" bson:"order"`
	DelivererID      string          `json:"deliverer" bson:"deliverer"`
	Status           DeliveryStatus  `json:"status" bson:"status"`
	DeliveryLocation Location        `json:"deliveryLocation,omitempty" bson:"deliveryLocation,omitempty"`
	EstimatedTime    *time.Time      `json:"estimatedTime,omitempty" bson:"estimatedTime,omitempty"`
	ActualTime       *time.Time      `json:"actualDeliveryTime,omitempty" bson:"actualDeliveryTime,omitempty"`
	DeliveryFee      float64         `json:"deliveryFee" bson:"deliveryFee"`
	Notes            string          `json:"notes,omitempty" bson:"notes,omitempty"`
	Proof            ProofOfDelivery `json:"proofOfDelivery,omitempty" bson:"proofOfDelivery,omitempty"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt" bson:"updatedAt"`
}
