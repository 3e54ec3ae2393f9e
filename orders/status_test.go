package orders

import (
	"testing"

	"agromarket/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"pending to confirmed", models.OrderPending, models.OrderConfirmed, true},
		{"pending to cancelled", models.OrderPending, models.OrderCancelled, true},
		{"confirmed to processing", models.OrderConfirmed, models.OrderProcessing, true},
		{"processing to shipped", models.OrderProcessing, models.OrderShipped, true},
		{"shipped to delivered", models.OrderShipped, models.OrderDelivered, true},
		{"shipped to cancelled", models.OrderShipped, models.OrderCancelled, true},

		{"no skipping pending to processing", models.OrderPending, models.OrderProcessing, false},
		{"no skipping confirmed to shipped", models.OrderConfirmed, models.OrderShipped, false},
		{"no going backwards", models.OrderShipped, models.OrderProcessing, false},
		{"delivered is terminal", models.OrderDelivered, models.OrderCancelled, false},
		{"cancelled is terminal", models.OrderCancelled, models.OrderPending, false},
		{"cancelled stays cancelled", models.OrderCancelled, models.OrderCancelled, false},
		{"unknown status", models.OrderStatus("limbo"), models.OrderConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderDelivered))
	assert.True(t, IsTerminal(models.OrderCancelled))
	assert.False(t, IsTerminal(models.OrderPending))
	assert.False(t, IsTerminal(models.OrderShipped))
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, IsCancellable(models.OrderPending))
	assert.True(t, IsCancellable(models.OrderConfirmed))
	assert.True(t, IsCancellable(models.OrderProcessing))
	assert.False(t, IsCancellable(models.OrderShipped))
	assert.False(t, IsCancellable(models.OrderDelivered))
	assert.False(t, IsCancellable(models.OrderCancelled))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderPending, models.OrderConfirmed, models.OrderProcessing,
		models.OrderShipped, models.OrderDelivered, models.OrderCancelled,
	} {
		assert.True(t, IsValidStatus(s), string(s))
	}
	assert.False(t, IsValidStatus(models.OrderStatus("archived")))
	assert.False(t, IsValidStatus(models.OrderStatus("")))
}
