package dispatch

import (
	"context"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// Handler reacts to one domain event.
type Handler interface {
	Handle(ctx context.Context, event kernel.DomainEvent) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event kernel.DomainEvent) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event kernel.DomainEvent) error {
	return f(ctx, event)
}

// Publisher publishes a batch of domain events. *Dispatcher implements it.
type Publisher interface {
	Publish(ctx context.Context, events kernel.DomainEvents) error
}
