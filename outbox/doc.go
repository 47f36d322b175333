// Package outbox turns kernel domain events into storable, serialized records and back.
//
// A StorableEvent is the DTO persisted by an outbox engine (see outbox/postgresengine) in the same
// transaction as the aggregate change. A relay later reads pending records, decodes them with a Registry
// into kernel.DomainEvent values, and hands them to a dispatcher.
//
// Payloads and metadata are JSON, encoded with json-iterator.
package outbox
