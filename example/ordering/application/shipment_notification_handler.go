package application

import (
	"context"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// ShipmentNotifier tells the customer that an order is on its way.
type ShipmentNotifier interface {
	NotifyShipped(ctx context.Context, event domain.OrderShipped) error
}

// ShipmentNotificationHandler forwards OrderShipped events to a ShipmentNotifier. Other events are ignored.
// Delivery is at least once, so notifiers should deduplicate by order id.
type ShipmentNotificationHandler struct {
	notifier ShipmentNotifier
}

func NewShipmentNotificationHandler(notifier ShipmentNotifier) ShipmentNotificationHandler {
	return ShipmentNotificationHandler{notifier: notifier}
}

func (h ShipmentNotificationHandler) Handle(ctx context.Context, event kernel.DomainEvent) error {
	shipped, ok := event.(domain.OrderShipped)
	if !ok {
		return nil
	}

	return h.notifier.NotifyShipped(ctx, shipped)
}
