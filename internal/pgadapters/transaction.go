package pgadapters

import (
	"context"
	"errors"
)

// Sentinel errors for transaction handling.
var (
	ErrBeginTransactionFailed    = errors.New("begin transaction failed")
	ErrCommitTransactionFailed   = errors.New("commit transaction failed")
	ErrRollbackTransactionFailed = errors.New("rollback transaction failed")
)

type txKey struct{}

// activeTx is the transaction carried by a context.
// owner is the connection handle the transaction was begun on.
type activeTx struct {
	owner any
	tx    any
}

func withTx(ctx context.Context, owner any, tx any) context.Context {
	return context.WithValue(ctx, txKey{}, activeTx{owner: owner, tx: tx})
}

// txFrom returns the transaction in ctx if it was begun on owner and has type T.
func txFrom[T any](ctx context.Context, owner any) (T, bool) {
	var zero T

	active, ok := ctx.Value(txKey{}).(activeTx)
	if !ok || active.owner != owner {
		return zero, false
	}

	tx, ok := active.tx.(T)
	if !ok {
		return zero, false
	}

	return tx, true
}

// HasTransaction reports whether ctx carries a transaction begun by any adapter.
func HasTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(activeTx)
	return ok
}

// finishTx commits when fn succeeds and rolls back otherwise.
// A panic in fn rolls back and is re-raised.
func finishTx(
	ctx context.Context,
	fn func(ctx context.Context) error,
	commit func(ctx context.Context) error,
	rollback func(ctx context.Context) error,
) (err error) {
	// Rollback must still reach the server after ctx was cancelled.
	cleanupCtx := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			_ = rollback(cleanupCtx)
			panic(p)
		}
	}()

	if err = fn(ctx); err != nil {
		if rollbackErr := rollback(cleanupCtx); rollbackErr != nil {
			return errors.Join(err, ErrRollbackTransactionFailed, rollbackErr)
		}

		return err
	}

	if commitErr := commit(ctx); commitErr != nil {
		return errors.Join(ErrCommitTransactionFailed, commitErr)
	}

	return nil
}
