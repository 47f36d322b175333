package kernel

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is an immutable record of something significant that happened in the domain.
//
// Event types should be plain structs with value receivers. The kernel does not validate events,
// it only keeps them in raise order until a dispatch collaborator has delivered them.
type DomainEvent interface {
	// EventType returns the stable name of the concrete event variant.
	EventType() string

	// OccurredOnUTC returns when the event happened, in UTC.
	OccurredOnUTC() time.Time
}

// EventSource is the capability a dispatch collaborator needs from an aggregate:
// read the pending events in raise order and clear them after successful delivery.
type EventSource interface {
	DomainEvents() DomainEvents
	ClearDomainEvents()
}

// OccurredOn is the timestamp type used by EventBase.
type OccurredOn = time.Time

// ToOccurredOn normalizes t to UTC with microsecond precision, which is what Postgres can store.
func ToOccurredOn(t time.Time) OccurredOn {
	return t.UTC().Truncate(time.Microsecond)
}

// EventBase can be embedded into event structs to provide OccurredOnUTC.
type EventBase struct {
	OccurredOn OccurredOn
}

// NewEventBase returns an EventBase for the given point in time.
func NewEventBase(occurredOn time.Time) EventBase {
	return EventBase{OccurredOn: ToOccurredOn(occurredOn)}
}

// OccurredOnUTC returns when the event happened.
func (e EventBase) OccurredOnUTC() time.Time {
	return e.OccurredOn
}
