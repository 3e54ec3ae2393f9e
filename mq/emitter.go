package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"agromarket/db"
	"agromarket/models"
	"agromarket/rdx"
	"agromarket/ws"

	"github.com/google/uuid"
)

const channel = "order-events"

// Event names emitted by the order core.
const (
	EventOrderCreated      = "order-created"
	EventStatusChanged     = "status-changed"
	EventDeliveryAssigned  = "delivery-assigned"
	EventDeliveryCompleted = "delivery-completed"
)

// Event is the fire-and-forget payload published on order lifecycle changes.
type Event struct {
	Type    string         `json:"type"`
	OrderID string         `json:"orderId"`
	UserID  string         `json:"userId"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	At      time.Time      `json:"at"`
}

// Emit publishes the event to Redis. Failures are logged and swallowed:
// notifications must never block or roll back the primary state transition.
func Emit(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", ev.Type, err)
	}
}

// StartNotificationWorker consumes published events, persists them as in-app
// notifications and pushes them to websocket subscribers of the order.
func StartNotificationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for order events...")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[NotificationWorker] failed to parse event: %v", err)
			continue
		}

		if ev.UserID != "" {
			n := models.Notification{
				NotificationID: uuid.NewString(),
				UserID:         ev.UserID,
				Title:          ev.Title,
				Message:        ev.Message,
				Type:           ev.Type,
				Data:           ev.Data,
				CreatedAt:      time.Now(),
			}
			if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
				log.Printf("[NotificationWorker] insert notification: %v", err)
			}
		}

		if ev.OrderID != "" {
			ws.PushOrderUpdate(ev.OrderID, ev)
		}
	}
}
