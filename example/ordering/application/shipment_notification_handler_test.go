package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/application"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
)

type notifierSpy struct {
	notified []domain.OrderShipped
	err      error
}

func (n *notifierSpy) NotifyShipped(_ context.Context, event domain.OrderShipped) error {
	n.notified = append(n.notified, event)
	return n.err
}

func Test_ShipmentNotificationHandler_Handle(t *testing.T) {
	// arrange
	spy := &notifierSpy{}
	handler := application.NewShipmentNotificationHandler(spy)
	id := domain.NewOrderID()
	shipped := domain.BuildOrderShipped(id, domain.NewMoney(900, "EUR").Value(), time.Now())
	cancelled := domain.BuildOrderCancelled(id, "no stock", time.Now())

	// act
	shippedErr := handler.Handle(context.Background(), shipped)
	cancelledErr := handler.Handle(context.Background(), cancelled)

	// assert
	require.NoError(t, shippedErr)
	require.NoError(t, cancelledErr)
	require.Len(t, spy.notified, 1)
	assert.Equal(t, id.String(), spy.notified[0].OrderID)
}

func Test_ShipmentNotificationHandler_Handle_PropagatesNotifierError(t *testing.T) {
	// arrange
	spy := &notifierSpy{err: errPublisherDown}
	handler := application.NewShipmentNotificationHandler(spy)
	shipped := domain.BuildOrderShipped(domain.NewOrderID(), domain.NewMoney(900, "EUR").Value(), time.Now())

	// act
	err := handler.Handle(context.Background(), shipped)

	// assert
	assert.ErrorIs(t, err, errPublisherDown)
}
