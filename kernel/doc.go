// Package kernel provides the building blocks for domain models in layered business applications.
//
// The package is deliberately small and free of infrastructure concerns. It defines:
//   - Entity: identity-based equality keyed by (concrete type, id)
//   - AggregateRoot: an Entity plus an ordered, clearable buffer of pending domain events
//   - ValueObject: structural equality over an ordered signature of atomic components
//   - AuditInfo: creation/modification stamps, embeddable into any entity or aggregate
//   - DomainEvent: the shape an event value must have to be raised and dispatched
//   - Result / ResultOf: an explicit success-or-failure outcome carrying a structured Error
//
// Types are composed, not inherited. A concrete aggregate embeds the components it needs:
//
//	type Order struct {
//		kernel.AggregateRoot[OrderID]
//		kernel.AuditInfo
//
//		raise kernel.Raise
//		lines []OrderLine
//	}
//
//	func PlaceOrder(id OrderID, now time.Time) *Order {
//		root, raise := kernel.NewAggregateRoot(id)
//		o := &Order{AggregateRoot: root, raise: raise}
//		o.raise(BuildOrderPlaced(id, now))
//
//		return o
//	}
//
// Expected domain failures are returned as data:
//
//	if o.IsShipped() {
//		return kernel.Failure(kernel.Conflict("Order", "order is already shipped"))
//	}
//
// Contract violations (e.g., reading the value of a failed ResultOf) are caller bugs and panic
// with an error wrapping ErrContractViolation.
//
// Nothing in this package performs I/O or synchronization. Persisting aggregates, dispatching
// their events, and stamping audit info are the responsibility of collaborators
// (see the uow, dispatch, outbox, and repository packages).
package kernel
