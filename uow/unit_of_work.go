package uow

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

const (
	opSaveChanges = "uow.save_changes"

	logAttrChangeCount = "change_count"
	logAttrEventCount  = "event_count"
	errTypeApply       = "apply_error"
	errTypeOutbox      = "outbox_error"
	errTypePublish     = "publish_error"
)

var (
	ErrNilAggregate       = errors.New("aggregate must not be nil")
	ErrNilApplyFunc       = errors.New("apply func must not be nil")
	ErrInvalidChangeKind  = errors.New("invalid change kind")
	ErrApplyingFailed     = errors.New("applying change failed")
	ErrAppendingToOutbox  = errors.New("appending events to the outbox failed")
	ErrPublishingFailed   = errors.New("publishing domain events failed")
	ErrNilUnitOfWorkInput = errors.New("unit of work dependency must not be nil")
)

// OutboxAppender appends storable events to a transactional outbox.
// outbox/postgresengine.Store implements it.
type OutboxAppender interface {
	Append(ctx context.Context, event outbox.StorableEvent, additionalEvents ...outbox.StorableEvent) error
}

// Publisher publishes domain events after the changes were applied.
// dispatch.Dispatcher implements it.
type Publisher interface {
	Publish(ctx context.Context, events kernel.DomainEvents) error
}

// Transactor runs fn inside one database transaction.
// outbox/postgresengine.Store and repository/postgresengine.DocumentRepository implement it.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetadataFunc returns the causation and correlation metadata for outbox records of the current request.
type MetadataFunc func(ctx context.Context) outbox.EventMetadata

// UnitOfWork collects the changes of one business transaction and saves them together.
// It is safe for concurrent registration.
type UnitOfWork struct {
	mu          sync.Mutex
	changes     []change
	unpublished []eventSource
	stamper     AuditStamper
	outbox      OutboxAppender
	metadata    MetadataFunc
	publisher   Publisher
	transactor  Transactor
	instr       observability.Instrumentation
}

// Option defines a functional option for configuring a UnitOfWork.
type Option func(*UnitOfWork) error

// WithAuditStamper sets the stamper used for kernel.Auditable aggregates.
func WithAuditStamper(stamper AuditStamper) Option {
	return func(u *UnitOfWork) error {
		u.stamper = stamper
		return nil
	}
}

// WithOutbox makes SaveChanges append all collected events to the given outbox.
func WithOutbox(appender OutboxAppender) Option {
	return func(u *UnitOfWork) error {
		if appender == nil {
			return ErrNilUnitOfWorkInput
		}

		u.outbox = appender

		return nil
	}
}

// WithOutboxMetadata sets where causation and correlation IDs for outbox records come from.
func WithOutboxMetadata(metadata MetadataFunc) Option {
	return func(u *UnitOfWork) error {
		if metadata == nil {
			return ErrNilUnitOfWorkInput
		}

		u.metadata = metadata

		return nil
	}
}

// WithPublisher makes SaveChanges publish all collected events after the changes were applied.
func WithPublisher(publisher Publisher) Option {
	return func(u *UnitOfWork) error {
		if publisher == nil {
			return ErrNilUnitOfWorkInput
		}

		u.publisher = publisher

		return nil
	}
}

// WithTransactor makes SaveChanges apply the changes and append to the outbox in one transaction.
func WithTransactor(transactor Transactor) Option {
	return func(u *UnitOfWork) error {
		if transactor == nil {
			return ErrNilUnitOfWorkInput
		}

		u.transactor = transactor

		return nil
	}
}

// WithInstrumentation sets the logging, metrics, and tracing ports.
func WithInstrumentation(instr observability.Instrumentation) Option {
	return func(u *UnitOfWork) error {
		u.instr = instr
		return nil
	}
}

// New creates an empty UnitOfWork.
func New(options ...Option) (*UnitOfWork, error) {
	u := &UnitOfWork{}

	for _, option := range options {
		if err := option(u); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// Register adds a change. apply is called by SaveChanges, in registration order.
func (u *UnitOfWork) Register(kind ChangeKind, aggregate Aggregate, apply ApplyFunc) error {
	if !kind.valid() {
		return ErrInvalidChangeKind
	}

	if aggregate == nil {
		return ErrNilAggregate
	}

	if apply == nil {
		return ErrNilApplyFunc
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.changes = append(u.changes, change{kind: kind, aggregate: aggregate, apply: apply})

	return nil
}

// Pending returns the number of registered changes that were not applied yet.
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return len(u.changes)
}

// Reset discards all registered changes without saving them.
// Events of already applied changes that still wait for publishing are dropped from the unit of work as well.
func (u *UnitOfWork) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.changes = nil
	u.unpublished = nil
}

// SaveChanges saves all registered changes and returns how many were applied.
//
// Audit info is stamped inside the persisting step, so every attempt stamps again with the current time and user.
// If publishing fails after the changes were persisted, SaveChanges returns the applied count together with
// ErrPublishingFailed. The applied changes are dropped, their events stay buffered, and the next call publishes
// them without applying anything twice.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.changes) == 0 && len(u.unpublished) == 0 {
		return 0, nil
	}

	ctx, op := u.instr.Start(ctx, opSaveChanges, map[string]string{logAttrChangeCount: strconv.Itoa(len(u.changes))})

	sources := u.eventSources()
	applied := 0

	if len(u.changes) > 0 {
		if err := u.persist(ctx, sources); err != nil {
			errType := errTypeApply
			if errors.Is(err, ErrAppendingToOutbox) {
				errType = errTypeOutbox
			}

			op.Failure(err, errType)

			return 0, err
		}

		for i := range sources {
			sources[i].persisted = len(sources[i].aggregate.DomainEvents())
		}

		applied = len(u.changes)
		u.changes = nil
		u.unpublished = sources
	}

	events := collectEvents(sources)

	if u.publisher != nil && len(events) > 0 {
		if err := u.publisher.Publish(ctx, events); err != nil {
			err = errors.Join(ErrPublishingFailed, err)
			op.Failure(err, errTypePublish)

			return applied, err
		}
	}

	for _, source := range sources {
		source.aggregate.ClearDomainEvents()
	}

	u.unpublished = nil

	op.Success(nil, logAttrChangeCount, applied, logAttrEventCount, len(events))

	return applied, nil
}

func (u *UnitOfWork) persist(ctx context.Context, sources []eventSource) error {
	persist := func(ctx context.Context) error {
		u.stampAuditInfo(ctx)

		if err := u.applyChanges(ctx); err != nil {
			return err
		}

		return u.appendToOutbox(ctx, sources)
	}

	if u.transactor != nil {
		return u.transactor.InTransaction(ctx, persist)
	}

	return persist(ctx)
}

func (u *UnitOfWork) stampAuditInfo(ctx context.Context) {
	for _, c := range u.changes {
		if auditable, ok := c.aggregate.(kernel.Auditable); ok {
			u.stamper.Stamp(ctx, c.kind, auditable)
		}
	}
}

func (u *UnitOfWork) applyChanges(ctx context.Context) error {
	for _, c := range u.changes {
		if err := c.apply(ctx); err != nil {
			return errors.Join(ErrApplyingFailed, err)
		}
	}

	return nil
}

// eventSources returns each aggregate whose events are due once, sources still waiting for publishing first,
// then the registered changes in registration order.
func (u *UnitOfWork) eventSources() []eventSource {
	sources := make([]eventSource, 0, len(u.unpublished)+len(u.changes))
	sources = append(sources, u.unpublished...)

	for _, c := range u.changes {
		if !containsAggregate(sources, c.aggregate) {
			sources = append(sources, eventSource{aggregate: c.aggregate})
		}
	}

	return sources
}

func collectEvents(sources []eventSource) kernel.DomainEvents {
	events := make(kernel.DomainEvents, 0)

	for _, source := range sources {
		events = append(events, source.aggregate.DomainEvents()...)
	}

	return events
}

func (u *UnitOfWork) appendToOutbox(ctx context.Context, sources []eventSource) error {
	if u.outbox == nil {
		return nil
	}

	metadata := outbox.EventMetadata{}
	if u.metadata != nil {
		metadata = u.metadata(ctx)
	}

	storableEvents := make(outbox.StorableEvents, 0)

	for _, source := range sources {
		pending := source.unpersisted()
		if len(pending) == 0 {
			continue
		}

		aggregateType, aggregateID := describe(source.aggregate)

		converted, err := outbox.StorableEventsFrom(aggregateType, aggregateID, pending, metadata)
		if err != nil {
			return errors.Join(ErrAppendingToOutbox, err)
		}

		storableEvents = append(storableEvents, converted...)
	}

	if len(storableEvents) == 0 {
		return nil
	}

	if err := u.outbox.Append(ctx, storableEvents[0], storableEvents[1:]...); err != nil {
		return errors.Join(ErrAppendingToOutbox, err)
	}

	return nil
}
