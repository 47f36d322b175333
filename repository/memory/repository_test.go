package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/repository"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/memory"
)

type sensor struct {
	kernel.AggregateRoot[int]
	label string
}

func newSensor(id int, label string) *sensor {
	root, _ := kernel.NewAggregateRoot(id)
	return &sensor{AggregateRoot: root, label: label}
}

func Test_Repository_AddAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.New[*sensor, int]()
	s := newSensor(1, "hall")

	require.NoError(t, repo.Add(ctx, s))
	loaded, err := repo.GetByID(ctx, 1)

	require.NoError(t, err)
	assert.Same(t, s, loaded)
	assert.Equal(t, 1, repo.Len())
}

func Test_Repository_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := memory.New[*sensor, int]()
	require.NoError(t, repo.Add(ctx, newSensor(1, "hall")))

	err := repo.Add(ctx, newSensor(1, "kitchen"))

	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func Test_Repository_GetUnknown(t *testing.T) {
	repo := memory.New[*sensor, int]()

	loaded, err := repo.GetByID(context.Background(), 42)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, loaded)
}

func Test_Repository_UpdateAndRemove(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo := memory.New[*sensor, int]()
	require.NoError(t, repo.Add(ctx, newSensor(1, "hall")))
	replacement := newSensor(1, "lobby")

	// act
	updateErr := repo.Update(ctx, replacement)
	loaded, getErr := repo.GetByID(ctx, 1)
	removeErr := repo.Remove(ctx, replacement)

	// assert
	require.NoError(t, updateErr)
	require.NoError(t, getErr)
	assert.Equal(t, "lobby", loaded.label)
	require.NoError(t, removeErr)
	assert.Zero(t, repo.Len())
}

func Test_Repository_UpdateAndRemoveUnknown(t *testing.T) {
	ctx := context.Background()
	repo := memory.New[*sensor, int]()

	assert.ErrorIs(t, repo.Update(ctx, newSensor(9, "x")), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, newSensor(9, "x")), repository.ErrNotFound)
}
