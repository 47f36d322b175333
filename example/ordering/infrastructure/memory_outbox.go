package infrastructure

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

var (
	ErrDuplicateMessageID = errors.New("duplicate outbox message id")
	ErrInvalidLimit       = errors.New("limit must be positive")
)

// MemoryOutbox keeps outbox records in memory, in append order.
// It serves the same roles as the postgres outbox store: uow.OutboxAppender and dispatch.OutboxReader.
type MemoryOutbox struct {
	mu       sync.Mutex
	records  []outbox.Record
	messages map[uuid.UUID]struct{}
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{messages: make(map[uuid.UUID]struct{})}
}

// Append stores all events or none of them.
func (o *MemoryOutbox) Append(_ context.Context, event outbox.StorableEvent, additionalEvents ...outbox.StorableEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	events := append(outbox.StorableEvents{event}, additionalEvents...)

	seen := make(map[uuid.UUID]struct{}, len(events))
	for _, e := range events {
		if _, exists := o.messages[e.MessageID]; exists {
			return ErrDuplicateMessageID
		}

		if _, exists := seen[e.MessageID]; exists {
			return ErrDuplicateMessageID
		}

		seen[e.MessageID] = struct{}{}
	}

	for _, e := range events {
		o.messages[e.MessageID] = struct{}{}
		o.records = append(o.records, outbox.Record{SequenceNumber: int64(len(o.records) + 1), Event: e})
	}

	return nil
}

// Pending returns up to limit undispatched records in sequence order.
func (o *MemoryOutbox) Pending(_ context.Context, limit int) ([]outbox.Record, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	pending := make([]outbox.Record, 0, min(limit, len(o.records)))

	for _, record := range o.records {
		if record.IsDispatched() {
			continue
		}

		pending = append(pending, record)
		if len(pending) == limit {
			break
		}
	}

	return pending, nil
}

// MarkDispatched stamps the given, not yet dispatched records and returns how many it stamped.
func (o *MemoryOutbox) MarkDispatched(_ context.Context, at time.Time, sequenceNumbers ...int64) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var marked int64

	for _, seq := range sequenceNumbers {
		idx := int(seq) - 1
		if idx < 0 || idx >= len(o.records) || o.records[idx].IsDispatched() {
			continue
		}

		o.records[idx].DispatchedAt = at.UTC()
		marked++
	}

	return marked, nil
}

// Records returns a copy of all records.
func (o *MemoryOutbox) Records() []outbox.Record {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]outbox.Record(nil), o.records...)
}
