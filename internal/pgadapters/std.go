package pgadapters

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// stdQuerier is satisfied by *sql.DB, *sql.Tx, *sqlx.DB and *sqlx.Tx.
type stdQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type stdTx interface {
	stdQuerier
	Commit() error
	Rollback() error
}

// stdAdapter holds the behavior shared by the database/sql based adapters.
// owner is always the underlying *sql.DB, so sql and sqlx adapters over one pool share transactions.
type stdAdapter struct {
	owner *sql.DB
	db    stdQuerier
	begin func(ctx context.Context) (stdTx, error)
}

func (a stdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.querierFor(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (a stdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := a.querierFor(ctx).ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (a stdAdapter) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom[stdTx](ctx, a.owner); ok {
		return fn(ctx)
	}

	tx, err := a.begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTransactionFailed, err)
	}

	return finishTx(
		withTx(ctx, a.owner, tx),
		fn,
		func(context.Context) error { return tx.Commit() },
		func(context.Context) error { return tx.Rollback() },
	)
}

func (a stdAdapter) querierFor(ctx context.Context) stdQuerier {
	if tx, ok := txFrom[stdTx](ctx, a.owner); ok {
		return tx
	}

	return a.db
}

// SQLAdapter runs statements on a database/sql pool.
type SQLAdapter struct {
	stdAdapter
}

// NewSQLAdapter returns an adapter for db.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{stdAdapter{
		owner: db,
		db:    db,
		begin: func(ctx context.Context) (stdTx, error) { return db.BeginTx(ctx, nil) },
	}}
}

// SQLXAdapter runs statements on a sqlx pool.
type SQLXAdapter struct {
	stdAdapter
}

// NewSQLXAdapter returns an adapter for db.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{stdAdapter{
		owner: db.DB,
		db:    db,
		begin: func(ctx context.Context) (stdTx, error) { return db.BeginTxx(ctx, nil) },
	}}
}
