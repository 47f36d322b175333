package infrastructure

import (
	"errors"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

// RegisterEvents makes all order events decodable from outbox rows.
func RegisterEvents(registry *outbox.Registry) error {
	return errors.Join(
		outbox.Register[domain.OrderPlaced](registry, domain.OrderPlacedEventType),
		outbox.Register[domain.OrderLineAdded](registry, domain.OrderLineAddedEventType),
		outbox.Register[domain.OrderShipped](registry, domain.OrderShippedEventType),
		outbox.Register[domain.OrderCancelled](registry, domain.OrderCancelledEventType),
	)
}
