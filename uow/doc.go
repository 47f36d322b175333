// Package uow implements a unit of work for aggregates built on the kernel package.
//
// Repositories register added, modified, and removed aggregates together with the function that
// persists each change. SaveChanges then runs the whole "save" sequence the kernel expects from its
// persistence collaborator:
//
//  1. stamp audit info on kernel.Auditable aggregates
//  2. apply every change in registration order
//  3. append the pending domain events to the transactional outbox, if one is configured
//  4. reset the change set
//  5. publish the events, if a publisher is configured
//  6. clear the aggregates' event buffers
//
// Steps 1 to 3 run inside one transaction when a Transactor is configured.
// Events are taken once per aggregate, at its first registration, in raise order, even when the
// aggregate was registered more than once.
// If steps 1 to 3 fail, SaveChanges returns the error and leaves both the change set and the event
// buffers untouched. If publishing fails, the applied changes are gone but the events stay buffered,
// and the next SaveChanges publishes them without applying or appending them again.
//
// A UnitOfWork is meant for one business transaction. Handlers reached through its Publisher must
// use their own UnitOfWork.
package uow
