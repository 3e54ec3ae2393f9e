package models

import "time"

// Product is the catalog entry the order core reads prices and stock from.
// Catalog CRUD lives outside this service; we only ever write the stock field.
type Product struct {
	ProductID   string    `json:"productId" bson:"productId"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Unit        string    `json:"unit,omitempty" bson:"unit,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	ProducerID  string    `json:"producer" bson:"producer"`
	IsAvailable bool      `json:"isAvailable" bson:"isAvailable"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
