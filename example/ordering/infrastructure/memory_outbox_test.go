package infrastructure_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/domain"
	"github.com/AntonStoeckl/ddd-kernel-go/example/ordering/infrastructure"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

func givenStorableEvents(t *testing.T, order *domain.Order) outbox.StorableEvents {
	t.Helper()

	events, err := outbox.StorableEventsFrom(order.AggregateType(), order.AggregateID(), order.DomainEvents(), outbox.EventMetadata{})
	require.NoError(t, err)

	return events
}

func Test_MemoryOutbox_AppendAndPending(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := infrastructure.NewMemoryOutbox()
	events := givenStorableEvents(t, givenOrder(t))
	require.Len(t, events, 3)

	// act
	appendErr := store.Append(ctx, events[0], events[1:]...)
	pending, pendingErr := store.Pending(ctx, 2)

	// assert
	require.NoError(t, appendErr)
	require.NoError(t, pendingErr)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].SequenceNumber)
	assert.Equal(t, int64(2), pending[1].SequenceNumber)
	assert.Equal(t, events[0].MessageID, pending[0].Event.MessageID)
}

func Test_MemoryOutbox_Append_DuplicateMessageID_AppendsNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := infrastructure.NewMemoryOutbox()
	events := givenStorableEvents(t, givenOrder(t))
	require.NoError(t, store.Append(ctx, events[0]))

	// act
	err := store.Append(ctx, events[1], events[2], events[0])

	// assert
	assert.ErrorIs(t, err, infrastructure.ErrDuplicateMessageID)
	assert.Len(t, store.Records(), 1)
}

func Test_MemoryOutbox_MarkDispatched(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := infrastructure.NewMemoryOutbox()
	events := givenStorableEvents(t, givenOrder(t))
	require.NoError(t, store.Append(ctx, events[0], events[1:]...))
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// act
	marked, err := store.MarkDispatched(ctx, at, 1, 3, 3, 99)
	pending, pendingErr := store.Pending(ctx, 10)

	// assert
	require.NoError(t, err)
	require.NoError(t, pendingErr)
	assert.Equal(t, int64(2), marked)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].SequenceNumber)
	assert.Equal(t, at, store.Records()[0].DispatchedAt)
}

func Test_MemoryOutbox_Pending_HugeLimit(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := infrastructure.NewMemoryOutbox()
	events := givenStorableEvents(t, givenOrder(t))
	require.NoError(t, store.Append(ctx, events[0], events[1:]...))

	// act
	pending, err := store.Pending(ctx, math.MaxInt)

	// assert
	require.NoError(t, err)
	assert.Len(t, pending, len(events))
}

func Test_MemoryOutbox_Pending_InvalidLimit(t *testing.T) {
	// arrange
	store := infrastructure.NewMemoryOutbox()

	// act
	_, err := store.Pending(context.Background(), 0)

	// assert
	assert.ErrorIs(t, err, infrastructure.ErrInvalidLimit)
}

func Test_RegisterEvents_DecodesOrderEvents(t *testing.T) {
	// arrange
	registry := outbox.NewRegistry()
	require.NoError(t, infrastructure.RegisterEvents(registry))
	order := givenOrder(t)
	require.True(t, order.Ship(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)).IsSuccess())

	// act
	decoded, err := registry.DomainEventsFrom(givenStorableEvents(t, order))

	// assert
	require.NoError(t, err)
	require.Len(t, decoded, 4)
	assert.IsType(t, domain.OrderPlaced{}, decoded[0])
	assert.IsType(t, domain.OrderLineAdded{}, decoded[1])
	shipped, ok := decoded[3].(domain.OrderShipped)
	require.True(t, ok)
	assert.Equal(t, int64(2999), shipped.TotalCents)
	assert.Equal(t, order.ID().String(), shipped.OrderID)
}

func Test_RegisterEvents_Twice_Fails(t *testing.T) {
	// arrange
	registry := outbox.NewRegistry()
	require.NoError(t, infrastructure.RegisterEvents(registry))

	// act
	err := infrastructure.RegisterEvents(registry)

	// assert
	assert.ErrorIs(t, err, outbox.ErrEventTypeAlreadyRegistered)
}
