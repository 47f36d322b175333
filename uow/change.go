package uow

import (
	"context"
	"fmt"
	"reflect"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// ChangeKind tells what happened to an aggregate within a unit of work.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Modified
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

func (k ChangeKind) valid() bool {
	return k >= Added && k <= Removed
}

// Aggregate is what the unit of work needs from an aggregate: access to its event buffer.
// Aggregates built on kernel.AggregateRoot satisfy it through embedding.
type Aggregate interface {
	kernel.EventSource
}

// Described can be implemented by aggregates to label their outbox records.
// Aggregates that don't implement it are labeled with their Go type name and the result of their ID method.
type Described interface {
	AggregateType() string
	AggregateID() string
}

// ApplyFunc persists one change.
type ApplyFunc func(ctx context.Context) error

type change struct {
	kind      ChangeKind
	aggregate Aggregate
	apply     ApplyFunc
}

// eventSource is an aggregate whose buffered events are saved. persisted counts the leading buffered
// events that are already in the outbox.
type eventSource struct {
	aggregate Aggregate
	persisted int
}

func (s eventSource) unpersisted() kernel.DomainEvents {
	events := s.aggregate.DomainEvents()
	if s.persisted >= len(events) {
		return nil
	}

	return events[s.persisted:]
}

// containsAggregate reports whether aggregate is already among sources.
// Only pointer aggregates are matched; value aggregates carry their own buffer copy.
func containsAggregate(sources []eventSource, aggregate Aggregate) bool {
	for _, source := range sources {
		if sameAggregate(source.aggregate, aggregate) {
			return true
		}
	}

	return false
}

func sameAggregate(a, b Aggregate) bool {
	typeOfA := reflect.TypeOf(a)
	if typeOfA != reflect.TypeOf(b) || typeOfA.Kind() != reflect.Pointer {
		return false
	}

	return a == b
}
