package uow_test

import (
	"context"
	"sync"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

type shipmentID string

type shipmentCreated struct {
	kernel.EventBase
	ShipmentID string
}

func (e shipmentCreated) EventType() string { return "ShipmentCreated" }

type shipmentDispatched struct {
	kernel.EventBase
	ShipmentID string
}

func (e shipmentDispatched) EventType() string { return "ShipmentDispatched" }

type shipment struct {
	kernel.AggregateRoot[shipmentID]
	kernel.AuditInfo
	raise kernel.Raise
}

func createShipment(id shipmentID) *shipment {
	root, raise := kernel.NewAggregateRoot(id)
	s := &shipment{AggregateRoot: root, raise: raise}
	s.raise(shipmentCreated{EventBase: kernel.NewEventBase(time.Now()), ShipmentID: string(id)})

	return s
}

func (s *shipment) Dispatch() {
	s.raise(shipmentDispatched{EventBase: kernel.NewEventBase(time.Now()), ShipmentID: string(s.ID())})
}

// customsNote has no audit info and describes itself for the outbox.
type customsNote struct {
	kernel.AggregateRoot[int]
}

func (n customsNote) AggregateType() string { return "CustomsNote" }
func (n customsNote) AggregateID() string   { return "note-7" }

type outboxSpy struct {
	mu     sync.Mutex
	events outbox.StorableEvents
	err    error
}

func (o *outboxSpy) Append(_ context.Context, event outbox.StorableEvent, additionalEvents ...outbox.StorableEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.err != nil {
		return o.err
	}

	o.events = append(o.events, event)
	o.events = append(o.events, additionalEvents...)

	return nil
}

type publisherSpy struct {
	published kernel.DomainEvents
	err       error
}

func (p *publisherSpy) Publish(_ context.Context, events kernel.DomainEvents) error {
	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, events...)

	return nil
}

type transactorSpy struct {
	calls int
}

func (t *transactorSpy) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}
