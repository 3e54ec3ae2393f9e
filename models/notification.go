package models

import "time"

// Notification is an in-app notification persisted by the event worker.
type Notification struct {
	NotificationID string         `json:"notificationId" bson:"notificationId"`
	UserID         string         `json:"user" bson:"user"`
	Title          string         `json:"title" bson:"title"`
	Message        string         `json:"message" bson:"message"`
	Type           string         `json:"type" bson:"type"`
	Data           map[string]any `json:"data,omitempty" bson:"data,omitempty"`
	Read           bool           `json:"read" bson:"read"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
}

// IdempotencyRecord backs the Idempotency-Key middleware around order
// creation. Records expire via a TTL index.
type IdempotencyRecord struct {
	Key         string         `json:"key" bson:"key"`
	Method      string         `json:"method" bson:"method"`
	Path        string         `json:"path" bson:"path"`
	UserID      string         `json:"user_id" bson:"user_id"`
	RequestHash string         `json:"request_hash" bson:"request_hash"`
	Response    map[string]any `json:"response,omitempty" bson:"response,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at" bson:"expires_at"`
}
