package repository

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

var (
	ErrNotFound      = errors.New("aggregate not found")
	ErrAlreadyExists = errors.New("aggregate already exists")
)

// Aggregate is the constraint for aggregates a Repository can store.
type Aggregate[TID comparable] interface {
	kernel.Identifiable[TID]
	kernel.EventSource
}

// Repository loads and stores aggregates of one type.
//
// GetByID returns an error wrapping ErrNotFound when no aggregate has the id.
// Add fails with ErrAlreadyExists for a known id; Update and Remove fail with ErrNotFound for an unknown one.
type Repository[A Aggregate[TID], TID comparable] interface {
	GetByID(ctx context.Context, id TID) (A, error)
	Add(ctx context.Context, aggregate A) error
	Update(ctx context.Context, aggregate A) error
	Remove(ctx context.Context, aggregate A) error
}
