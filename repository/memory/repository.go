// Package memory provides an in-memory repository.Repository.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/ddd-kernel-go/repository"
)

// Repository keeps aggregates in a map keyed by their id. It is safe for concurrent use.
//
// It stores the aggregates themselves, so pointer aggregates are shared with the caller.
type Repository[A repository.Aggregate[TID], TID comparable] struct {
	mu         sync.RWMutex
	aggregates map[TID]A
}

// New creates an empty Repository.
func New[A repository.Aggregate[TID], TID comparable]() *Repository[A, TID] {
	return &Repository[A, TID]{aggregates: make(map[TID]A)}
}

// GetByID returns the aggregate with the given id.
func (r *Repository[A, TID]) GetByID(_ context.Context, id TID) (A, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aggregate, found := r.aggregates[id]
	if !found {
		var zero A
		return zero, notFound(id)
	}

	return aggregate, nil
}

// Add stores a new aggregate.
func (r *Repository[A, TID]) Add(_ context.Context, aggregate A) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := aggregate.ID()
	if _, found := r.aggregates[id]; found {
		return errors.Join(repository.ErrAlreadyExists, fmt.Errorf("id: %v", id))
	}

	r.aggregates[id] = aggregate

	return nil
}

// Update replaces a stored aggregate.
func (r *Repository[A, TID]) Update(_ context.Context, aggregate A) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := aggregate.ID()
	if _, found := r.aggregates[id]; !found {
		return notFound(id)
	}

	r.aggregates[id] = aggregate

	return nil
}

// Remove deletes a stored aggregate.
func (r *Repository[A, TID]) Remove(_ context.Context, aggregate A) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := aggregate.ID()
	if _, found := r.aggregates[id]; !found {
		return notFound(id)
	}

	delete(r.aggregates, id)

	return nil
}

// Len returns the number of stored aggregates.
func (r *Repository[A, TID]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.aggregates)
}

func notFound(id any) error {
	return errors.Join(repository.ErrNotFound, fmt.Errorf("id: %v", id))
}
