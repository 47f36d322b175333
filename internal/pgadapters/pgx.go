package pgadapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGXAdapter runs statements on a pgx pool, optionally routing reads to a replica pool.
type PGXAdapter struct {
	primary *pgxpool.Pool
	replica *pgxpool.Pool
}

// NewPGXAdapter returns an adapter that runs everything on pool.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{primary: pool}
}

// NewPGXAdapterWithReplica returns an adapter that serves opted-in reads from replica.
// See WithReplicaReads.
func NewPGXAdapterWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{primary: primary, replica: replica}
}

// Query runs inside the ctx transaction if there is one.
// Otherwise it goes to the replica when ctx allows replica reads, and to the primary by default.
func (a *PGXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.readerFor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxRows{Rows: rows}, nil
}

// Exec runs inside the ctx transaction if there is one, otherwise on the primary.
func (a *PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := a.writerFor(ctx).Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgxResult(tag), nil
}

// InTransaction runs fn with a context carrying a primary transaction.
// Calls nested in an active transaction of the same pool join it.
func (a *PGXAdapter) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom[pgx.Tx](ctx, a.primary); ok {
		return fn(ctx)
	}

	tx, err := a.primary.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Join(ErrBeginTransactionFailed, err)
	}

	return finishTx(withTx(ctx, a.primary, tx), fn, tx.Commit, tx.Rollback)
}

func (a *PGXAdapter) writerFor(ctx context.Context) pgxQuerier {
	if tx, ok := txFrom[pgx.Tx](ctx, a.primary); ok {
		return tx
	}

	return a.primary
}

func (a *PGXAdapter) readerFor(ctx context.Context) pgxQuerier {
	if tx, ok := txFrom[pgx.Tx](ctx, a.primary); ok {
		return tx
	}

	if a.replica != nil && ReadsFromReplica(ctx) {
		return a.replica
	}

	return a.primary
}

type pgxRows struct {
	pgx.Rows
}

// Close satisfies DBRows; pgx reports close errors through Err.
func (r pgxRows) Close() error {
	r.Rows.Close()
	return nil
}

type pgxResult pgconn.CommandTag

func (r pgxResult) RowsAffected() (int64, error) {
	return pgconn.CommandTag(r).RowsAffected(), nil
}
