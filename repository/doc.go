// Package repository defines the persistence port for aggregates built on the kernel package,
// plus Tracking, a decorator that defers writes to a unit of work.
//
// Implementations:
//   - repository/memory: maps, for tests and prototypes
//   - repository/postgresengine: aggregates as JSON documents in PostgreSQL
package repository
