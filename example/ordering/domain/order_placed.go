package domain

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// OrderPlacedEventType is the event type identifier.
const OrderPlacedEventType = "OrderPlaced"

// OrderPlaced is raised when a customer places a new order.
type OrderPlaced struct {
	kernel.EventBase
	OrderID    string
	CustomerID string
	Currency   string
	Street     string
	City       string
	PostalCode string
	Country    string
}

// BuildOrderPlaced creates a new OrderPlaced event.
func BuildOrderPlaced(orderID OrderID, customerID string, currency string, address Address, occurredAt time.Time) OrderPlaced {
	return OrderPlaced{
		EventBase:  kernel.NewEventBase(occurredAt),
		OrderID:    orderID.String(),
		CustomerID: customerID,
		Currency:   currency,
		Street:     address.Street(),
		City:       address.City(),
		PostalCode: address.PostalCode(),
		Country:    address.Country(),
	}
}

func (e OrderPlaced) EventType() string {
	return OrderPlacedEventType
}
