package outbox

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

type decodeFunc func(payloadJSON []byte) (kernel.DomainEvent, error)

// Registry maps event type names to decoders for their payloads.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]decodeFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]decodeFunc)}
}

// Register makes events of type E decodable under eventType.
//
// E is usually a plain event struct; the payload is decoded into a fresh E.
func Register[E kernel.DomainEvent](r *Registry, eventType string) error {
	if eventType == "" {
		return ErrEmptyEventType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.decoders[eventType]; exists {
		return errors.Join(ErrEventTypeAlreadyRegistered, fmt.Errorf("event type: %s", eventType))
	}

	r.decoders[eventType] = func(payloadJSON []byte) (kernel.DomainEvent, error) {
		event := new(E)

		if err := jsonAPI.Unmarshal(payloadJSON, event); err != nil {
			return nil, err
		}

		return *event, nil
	}

	return nil
}

// IsRegistered reports whether a decoder exists for eventType.
func (r *Registry) IsRegistered(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.decoders[eventType]

	return exists
}

// DomainEventFrom decodes a StorableEvent into the registered domain event type.
func (r *Registry) DomainEventFrom(storableEvent StorableEvent) (kernel.DomainEvent, error) {
	r.mu.RLock()
	decode, exists := r.decoders[storableEvent.EventType]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Join(ErrUnknownEventType, fmt.Errorf("event type: %s", storableEvent.EventType))
	}

	event, err := decode(storableEvent.PayloadJSON)
	if err != nil {
		return nil, errors.Join(ErrDecodingPayloadFailed, err)
	}

	return event, nil
}

// DomainEventsFrom decodes several StorableEvents, keeping their order.
func (r *Registry) DomainEventsFrom(storableEvents StorableEvents) (kernel.DomainEvents, error) {
	domainEvents := make(kernel.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := r.DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}
