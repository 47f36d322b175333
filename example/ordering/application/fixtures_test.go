package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/application"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/memory"
	"github.com/AntonStoeckl/ddd-kernel-go/uow"
)

var errPublisherDown = errors.New("publisher down")

type recordingPublisher struct {
	mu     sync.Mutex
	events kernel.DomainEvents
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events kernel.DomainEvents) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.events = append(p.events, events...)

	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType())
	}

	return types
}

type serviceFixture struct {
	service   *application.OrderService
	orders    *memory.Repository[*domain.Order, domain.OrderID]
	publisher *recordingPublisher
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
}

func givenOrderService(t *testing.T) serviceFixture {
	t.Helper()

	orders := memory.New[*domain.Order, domain.OrderID]()
	publisher := &recordingPublisher{}

	newUnitOfWork := func() (*uow.UnitOfWork, error) {
		return uow.New(
			uow.WithPublisher(publisher),
			uow.WithAuditStamper(uow.NewAuditStamper(fixedNow, uow.UserFunc(func(context.Context) string { return "clerk" }))),
		)
	}

	service, err := application.NewOrderService(orders, newUnitOfWork, application.WithClock(fixedNow))
	require.NoError(t, err)

	return serviceFixture{service: service, orders: orders, publisher: publisher}
}

func placeOrderCommand() application.PlaceOrderCommand {
	return application.PlaceOrderCommand{
		CustomerID: "customer-1",
		Currency:   "EUR",
		Street:     "Hauptstr. 1",
		City:       "Berlin",
		PostalCode: "10115",
		Country:    "DE",
	}
}

func givenPlacedOrderID(t *testing.T, f serviceFixture) domain.OrderID {
	t.Helper()

	placed, err := f.service.PlaceOrder(context.Background(), placeOrderCommand())
	require.NoError(t, err)
	require.True(t, placed.IsSuccess())

	return placed.Value()
}
