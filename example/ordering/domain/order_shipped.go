package domain

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// OrderShippedEventType is the event type identifier.
const OrderShippedEventType = "OrderShipped"

// OrderShipped is raised when an order leaves the warehouse.
type OrderShipped struct {
	kernel.EventBase
	OrderID    string
	TotalCents int64
	Currency   string
}

// BuildOrderShipped creates a new OrderShipped event.
func BuildOrderShipped(orderID OrderID, total Money, occurredAt time.Time) OrderShipped {
	return OrderShipped{
		EventBase:  kernel.NewEventBase(occurredAt),
		OrderID:    orderID.String(),
		TotalCents: total.AmountCents(),
		Currency:   total.Currency(),
	}
}

func (e OrderShipped) EventType() string {
	return OrderShippedEventType
}
