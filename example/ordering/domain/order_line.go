package domain

import (
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// OrderLine is an entity inside the Order aggregate, identified by its 1-based line number.
type OrderLine struct {
	kernel.Entity[int]
	sku       string
	quantity  int
	unitPrice Money
}

// RestoreOrderLine rebuilds a line from persisted values without validation.
func RestoreOrderLine(number int, sku string, quantity int, unitPrice Money) OrderLine {
	return OrderLine{
		Entity:    kernel.NewEntity(number),
		sku:       sku,
		quantity:  quantity,
		unitPrice: unitPrice,
	}
}

func (l OrderLine) SKU() string      { return l.sku }
func (l OrderLine) Quantity() int    { return l.quantity }
func (l OrderLine) UnitPrice() Money { return l.unitPrice }

// Total is the unit price times the quantity.
func (l OrderLine) Total() Money {
	return l.unitPrice.Times(l.quantity)
}
