// Package postgresengine stores aggregates as JSON documents in PostgreSQL.
//
// Each aggregate type gets its own table:
//
//	id          text primary key
//	document    jsonb
//	created_at  timestamptz null
//	created_by  text null
//	modified_at timestamptz null
//	modified_by text null
//
// A Codec maps aggregates to documents and back. The audit columns are filled from aggregates that
// implement kernel.Auditable and handed back to the Codec as a kernel.AuditInfo when loading.
//
// Like the outbox store, the repository works with pgx pools, database/sql, and sqlx connections.
package postgresengine
