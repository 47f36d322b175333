package dispatch

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

const (
	defaultBatchSize = 100

	opDrain = "dispatch.relay_drain"

	logAttrBatchSize      = "batch_size"
	logAttrRelayed        = "relayed"
	logAttrSequenceNumber = "sequence_number"
	logAttrError          = "error"
	logMsgDrainFailed     = "relay drain failed, retrying on next tick"
	errTypeRelay          = "relay_error"
)

// OutboxReader is what the Relay needs from an outbox store.
type OutboxReader interface {
	Pending(ctx context.Context, limit int) ([]outbox.Record, error)
	MarkDispatched(ctx context.Context, at time.Time, sequenceNumbers ...int64) (int64, error)
}

// Relay moves pending outbox records to a Publisher in sequence order.
type Relay struct {
	reader    OutboxReader
	registry  *outbox.Registry
	publisher Publisher
	batchSize int
	now       func() time.Time
	instr     observability.Instrumentation
}

// RelayOption defines a functional option for configuring a Relay.
type RelayOption func(*Relay) error

// WithBatchSize sets how many records one drain round reads at most.
func WithBatchSize(size int) RelayOption {
	return func(r *Relay) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}

		r.batchSize = size

		return nil
	}
}

// WithClock sets the clock used for dispatched_at timestamps.
func WithClock(now func() time.Time) RelayOption {
	return func(r *Relay) error {
		if now == nil {
			return ErrNilDependency
		}

		r.now = now

		return nil
	}
}

// WithRelayInstrumentation sets the logging, metrics, and tracing ports of the Relay.
func WithRelayInstrumentation(instr observability.Instrumentation) RelayOption {
	return func(r *Relay) error {
		r.instr = instr
		return nil
	}
}

// NewRelay creates a Relay reading from reader, decoding with registry, and publishing to publisher.
func NewRelay(reader OutboxReader, registry *outbox.Registry, publisher Publisher, options ...RelayOption) (*Relay, error) {
	if reader == nil || registry == nil || publisher == nil {
		return nil, ErrNilDependency
	}

	r := &Relay{
		reader:    reader,
		registry:  registry,
		publisher: publisher,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// DrainOnce relays one batch of pending records and returns how many were dispatched.
//
// Records are published one at a time and marked dispatched right after their handlers succeeded.
// The first failure stops the round, so a later record is never dispatched before an earlier one.
func (r *Relay) DrainOnce(ctx context.Context) (int, error) {
	ctx, op := r.instr.Start(ctx, opDrain, map[string]string{logAttrBatchSize: strconv.Itoa(r.batchSize)})

	records, pendingErr := r.reader.Pending(ctx, r.batchSize)
	if pendingErr != nil {
		op.Failure(pendingErr, errTypeRelay)
		return 0, errors.Join(ErrRelayFailed, pendingErr)
	}

	relayed := 0

	for _, record := range records {
		if err := r.relay(ctx, record); err != nil {
			op.Failure(err, errTypeRelay, logAttrRelayed, relayed, logAttrSequenceNumber, record.SequenceNumber)
			return relayed, errors.Join(ErrRelayFailed, err)
		}

		relayed++
	}

	op.Success(map[string]string{logAttrRelayed: strconv.Itoa(relayed)}, logAttrRelayed, relayed)

	return relayed, nil
}

func (r *Relay) relay(ctx context.Context, record outbox.Record) error {
	event, decodeErr := r.registry.DomainEventFrom(record.Event)
	if decodeErr != nil {
		return decodeErr
	}

	if publishErr := r.publisher.Publish(ctx, kernel.DomainEvents{event}); publishErr != nil {
		return publishErr
	}

	_, markErr := r.reader.MarkDispatched(ctx, r.now(), record.SequenceNumber)

	return markErr
}

// Run drains the outbox every interval until ctx is done. A full batch is followed by another drain
// round right away. Failed rounds are logged and retried on the next tick.
// Run returns nil once ctx is canceled.
func (r *Relay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.drainAll(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Relay) drainAll(ctx context.Context) {
	for ctx.Err() == nil {
		relayed, err := r.DrainOnce(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.instr.Warn(ctx, logMsgDrainFailed, logAttrError, err.Error())
			}

			return
		}

		if relayed < r.batchSize {
			return
		}
	}
}
