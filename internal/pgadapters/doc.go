// Package pgadapters hides the PostgreSQL client library behind DBAdapter.
//
// The outbox store and the document repository accept a pgxpool.Pool, a sql.DB or a sqlx.DB and
// run their goqu-rendered statements through the matching adapter. Statements arrive fully rendered,
// so adapters never bind arguments.
//
// InTransaction stores the open transaction in the context. Every adapter built on the same
// underlying pool picks it up, which lets the outbox append and the aggregate write commit together.
package pgadapters
