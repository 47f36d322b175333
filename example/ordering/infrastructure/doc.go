// Package infrastructure adapts the ordering model to the kernel collaborators:
// outbox event registration, the jsonb document codec and an in-memory outbox.
package infrastructure
