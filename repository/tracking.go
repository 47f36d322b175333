package repository

import (
	"context"

	"github.com/AntonStoeckl/ddd-kernel-go/uow"
)

// Tracking decorates a Repository so that writes are registered with a unit of work instead of
// being executed right away. They run, in registration order, when the unit of work saves its changes.
// Reads go straight to the decorated repository.
type Tracking[A Aggregate[TID], TID comparable] struct {
	inner      Repository[A, TID]
	unitOfWork *uow.UnitOfWork
}

// NewTracking creates a Tracking repository.
func NewTracking[A Aggregate[TID], TID comparable](inner Repository[A, TID], unitOfWork *uow.UnitOfWork) *Tracking[A, TID] {
	return &Tracking[A, TID]{inner: inner, unitOfWork: unitOfWork}
}

// GetByID loads the aggregate from the decorated repository.
func (t *Tracking[A, TID]) GetByID(ctx context.Context, id TID) (A, error) {
	return t.inner.GetByID(ctx, id)
}

// Add registers aggregate as added.
func (t *Tracking[A, TID]) Add(_ context.Context, aggregate A) error {
	return t.unitOfWork.Register(uow.Added, aggregate, func(ctx context.Context) error {
		return t.inner.Add(ctx, aggregate)
	})
}

// Update registers aggregate as modified.
func (t *Tracking[A, TID]) Update(_ context.Context, aggregate A) error {
	return t.unitOfWork.Register(uow.Modified, aggregate, func(ctx context.Context) error {
		return t.inner.Update(ctx, aggregate)
	})
}

// Remove registers aggregate as removed.
func (t *Tracking[A, TID]) Remove(_ context.Context, aggregate A) error {
	return t.unitOfWork.Register(uow.Removed, aggregate, func(ctx context.Context) error {
		return t.inner.Remove(ctx, aggregate)
	})
}
