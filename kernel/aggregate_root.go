package kernel

// Raise appends an event to the tail of an aggregate's pending events.
//
// It is handed out once, by NewAggregateRoot, and should be kept in an unexported field of the
// concrete aggregate, so only the aggregate's own state-changing methods can raise events.
type Raise func(event DomainEvent)

// eventBuffer holds the pending events of one aggregate instance. Insertion order is causal order.
type eventBuffer struct {
	pending DomainEvents
}

// AggregateRoot is the identity component plus the pending domain events of an aggregate.
//
// It is not safe for concurrent use. One unit of work owns an aggregate instance at a time.
// The zero AggregateRoot has the zero id and can never hold events.
type AggregateRoot[TID comparable] struct {
	Entity[TID]
	events *eventBuffer
}

// NewAggregateRoot returns the root component for id together with the capability to raise events on it.
func NewAggregateRoot[TID comparable](id TID) (AggregateRoot[TID], Raise) {
	buffer := &eventBuffer{}

	root := AggregateRoot[TID]{
		Entity: NewEntity(id),
		events: buffer,
	}

	raise := func(event DomainEvent) {
		buffer.pending = append(buffer.pending, event)
	}

	return root, raise
}

// DomainEvents returns a snapshot of the pending events in raise order.
// Mutating the returned slice does not affect the aggregate.
func (a AggregateRoot[TID]) DomainEvents() DomainEvents {
	if a.events == nil || len(a.events.pending) == 0 {
		return DomainEvents{}
	}

	snapshot := make(DomainEvents, len(a.events.pending))
	copy(snapshot, a.events.pending)

	return snapshot
}

// HasDomainEvents reports whether any events are pending.
func (a AggregateRoot[TID]) HasDomainEvents() bool {
	return a.events != nil && len(a.events.pending) > 0
}

// ClearDomainEvents empties the pending events. Clearing an empty buffer is a no-op.
//
// The dispatch collaborator must call it after all subscribers processed the events,
// otherwise they are dispatched again on the next save.
func (a AggregateRoot[TID]) ClearDomainEvents() {
	if a.events == nil {
		return
	}

	a.events.pending = nil
}
