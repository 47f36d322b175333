// Package application holds the ordering use cases.
//
// Every command runs in its own unit of work: load through a tracking repository, change the Order,
// save. Domain failures come back as Outcomes with a nil error. The error return is reserved for
// infrastructure failures such as a failing repository, outbox or handler.
package application
