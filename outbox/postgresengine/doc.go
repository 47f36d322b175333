// Package postgresengine provides a PostgreSQL implementation of the transactional outbox.
//
// Domain events serialized by the outbox package are appended to an outbox table together with the
// aggregate change. A relay reads the pending rows in sequence order and marks them dispatched
// once every handler succeeded.
//
// The store supports three database adapters:
//   - pgx/v5 connection pools (NewStoreFromPGXPool)
//   - database/sql connections (NewStoreFromSQLDB)
//   - sqlx database connections (NewStoreFromSQLX)
//
// Observability is optional and configured with functional options:
//   - WithLogger / WithContextualLogger: SQL queries at debug level, operations at info level
//   - WithMetrics: duration and counter metrics per operation
//   - WithTracing: one span per operation
//
// Table layout (default name "outbox"), see Store.CreateTableStatement:
//
//	sequence_number bigserial primary key
//	message_id      uuid unique
//	aggregate_type  text
//	aggregate_id    text
//	event_type      text
//	occurred_at     timestamptz
//	payload         jsonb
//	metadata        jsonb
//	dispatched_at   timestamptz null
package postgresengine
