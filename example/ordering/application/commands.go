package application

import (
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
)

// PlaceOrderCommand places a new order. A zero OrderID gets a fresh id.
type PlaceOrderCommand struct {
	OrderID    domain.OrderID
	CustomerID string
	Currency   string
	Street     string
	City       string
	PostalCode string
	Country    string
}

type AddLineCommand struct {
	OrderID        domain.OrderID
	SKU            string
	Quantity       int
	UnitPriceCents int64
}

type ShipOrderCommand struct {
	OrderID domain.OrderID
}

type CancelOrderCommand struct {
	OrderID domain.OrderID
	Reason  string
}
