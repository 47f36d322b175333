package dispatch_test

import (
	"context"
	"sync"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

const (
	invoiceIssuedEventType = "InvoiceIssued"
	invoicePaidEventType   = "InvoicePaid"
)

type invoiceIssued struct {
	kernel.EventBase
	InvoiceID string
}

func (e invoiceIssued) EventType() string { return invoiceIssuedEventType }

type invoicePaid struct {
	kernel.EventBase
	InvoiceID string
}

func (e invoicePaid) EventType() string { return invoicePaidEventType }

func givenInvoiceIssued(id string) invoiceIssued {
	return invoiceIssued{EventBase: kernel.NewEventBase(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)), InvoiceID: id}
}

func givenInvoicePaid(id string) invoicePaid {
	return invoicePaid{EventBase: kernel.NewEventBase(time.Date(2025, 1, 3, 3, 4, 5, 0, time.UTC)), InvoiceID: id}
}

// recordingHandler records the event types it received, in order.
type recordingHandler struct {
	mu       sync.Mutex
	received []string
	err      error
}

func (h *recordingHandler) Handle(_ context.Context, event kernel.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.received = append(h.received, event.EventType())

	return h.err
}

func (h *recordingHandler) Received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.received...)
}

// invoice is a minimal aggregate that raises events.
type invoice struct {
	kernel.AggregateRoot[string]
	raise kernel.Raise
}

func givenInvoiceWithEvents(events ...kernel.DomainEvent) *invoice {
	root, raise := kernel.NewAggregateRoot("inv-1")
	inv := &invoice{AggregateRoot: root, raise: raise}

	for _, event := range events {
		inv.raise(event)
	}

	return inv
}
