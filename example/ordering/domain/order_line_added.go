package domain

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// OrderLineAddedEventType is the event type identifier.
const OrderLineAddedEventType = "OrderLineAdded"

// OrderLineAdded is raised when a line is added to a placed order.
type OrderLineAdded struct {
	kernel.EventBase
	OrderID        string
	LineNumber     int
	SKU            string
	Quantity       int
	UnitPriceCents int64
	Currency       string
}

// BuildOrderLineAdded creates a new OrderLineAdded event.
func BuildOrderLineAdded(orderID OrderID, line OrderLine, occurredAt time.Time) OrderLineAdded {
	return OrderLineAdded{
		EventBase:      kernel.NewEventBase(occurredAt),
		OrderID:        orderID.String(),
		LineNumber:     line.ID(),
		SKU:            line.SKU(),
		Quantity:       line.Quantity(),
		UnitPriceCents: line.UnitPrice().AmountCents(),
		Currency:       line.UnitPrice().Currency(),
	}
}

func (e OrderLineAdded) EventType() string {
	return OrderLineAddedEventType
}
