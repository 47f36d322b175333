package domain

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// OrderCancelledEventType is the event type identifier.
const OrderCancelledEventType = "OrderCancelled"

// OrderCancelled is raised when a placed order is cancelled before shipping.
type OrderCancelled struct {
	kernel.EventBase
	OrderID string
	Reason  string
}

// BuildOrderCancelled creates a new OrderCancelled event.
func BuildOrderCancelled(orderID OrderID, reason string, occurredAt time.Time) OrderCancelled {
	return OrderCancelled{
		EventBase: kernel.NewEventBase(occurredAt),
		OrderID:   orderID.String(),
		Reason:    reason,
	}
}

func (e OrderCancelled) EventType() string {
	return OrderCancelledEventType
}
