package domain

import (
	"github.com/google/uuid"
)

// OrderID identifies an Order.
type OrderID uuid.UUID

func NewOrderID() OrderID {
	return OrderID(uuid.New())
}

// ParseOrderID parses the canonical uuid form.
func ParseOrderID(s string) (OrderID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return OrderID{}, err
	}

	return OrderID(id), nil
}

func (id OrderID) String() string {
	return uuid.UUID(id).String()
}
