// Package ordering wires the ordering example together: domain model, use cases, dispatcher and
// unit of work.
//
// NewInMemoryApp keeps orders in a map and either publishes on save or goes through an in-memory outbox.
// NewPostgresApp stores orders as jsonb documents and commits them together with their outbox rows.
//
// The layer packages below it (domain, application, infrastructure) follow the rules checked by cmd/kernelcheck.
package ordering
