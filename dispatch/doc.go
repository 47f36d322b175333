// Package dispatch delivers domain events to in-process handlers.
//
// The Dispatcher implements the "publish the whole batch, await all handlers, then clear" contract
// that aggregates rely on: events are published strictly in raise order, every matching handler of
// an event has finished before the next event is published, and DispatchAndClear clears an aggregate's
// buffer only after the whole batch was delivered.
//
// The Relay drains a transactional outbox (see outbox/postgresengine) into a Dispatcher in sequence order.
//
// Delivery is at-least-once: a retried event is handed to all of its handlers again, so handlers must be idempotent.
package dispatch
