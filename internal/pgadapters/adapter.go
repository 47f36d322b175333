package pgadapters

import "context"

// DBAdapter is the narrow database surface the PostgreSQL engines are written against.
//
// Query and Exec join the transaction carried by ctx when it was begun on the same underlying handle.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DBRows is a forward-only cursor over query results.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports the outcome of a statement.
type DBResult interface {
	RowsAffected() (int64, error)
}
