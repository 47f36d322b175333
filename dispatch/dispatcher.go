package dispatch

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
)

const (
	opPublish = "dispatch.publish"

	logAttrEventCount   = "event_count"
	logAttrEventIndex   = "event_index"
	logAttrEventType    = "event_type"
	logAttrAttempts     = "attempts"
	logMsgEventRetried  = "event delivered after retries"
	errTypeHandler      = "handler_error"
	errTypeInvalidInput = "invalid_input"
)

// Dispatcher publishes domain events to the handlers subscribed to their event type.
// It is safe for concurrent use.
type Dispatcher struct {
	mu              sync.RWMutex
	handlers        map[string][]Handler
	catchAll        []Handler
	concurrentLimit int
	retry           bool
	retryOptions    []RetryOption
	instr           observability.Instrumentation
}

// Option defines a functional option for configuring a Dispatcher.
type Option func(*Dispatcher) error

// WithLogger sets the logger for the Dispatcher.
func WithLogger(logger observability.Logger) Option {
	return func(d *Dispatcher) error {
		d.instr.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Dispatcher.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(d *Dispatcher) error {
		d.instr.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Dispatcher.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(d *Dispatcher) error {
		d.instr.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Dispatcher.
func WithTracing(collector observability.TracingCollector) Option {
	return func(d *Dispatcher) error {
		d.instr.Tracing = collector
		return nil
	}
}

// WithRetry enables per-event retries of errors marked with Transient.
// A retry hands the event to all of its handlers again. Invalid retry options fail NewDispatcher.
func WithRetry(options ...RetryOption) Option {
	return func(d *Dispatcher) error {
		scratch := &retryPolicy{}
		for _, option := range options {
			if err := option(scratch); err != nil {
				return err
			}
		}

		d.retry = true
		d.retryOptions = options

		return nil
	}
}

// WithMaxConcurrentHandlers limits how many handlers of one event run at the same time.
func WithMaxConcurrentHandlers(limit int) Option {
	return func(d *Dispatcher) error {
		if limit <= 0 {
			return ErrInvalidLimit
		}

		d.concurrentLimit = limit

		return nil
	}
}

// NewDispatcher creates a Dispatcher without subscriptions.
func NewDispatcher(options ...Option) (*Dispatcher, error) {
	d := &Dispatcher{handlers: make(map[string][]Handler)}

	for _, option := range options {
		if err := option(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Subscribe registers handlers for events of the given type.
func (d *Dispatcher) Subscribe(eventType string, handlers ...Handler) error {
	if eventType == "" {
		return ErrEmptyEventType
	}

	if err := checkHandlers(handlers); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handlers...)

	return nil
}

// SubscribeAll registers handlers for events of every type.
func (d *Dispatcher) SubscribeAll(handlers ...Handler) error {
	if err := checkHandlers(handlers); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.catchAll = append(d.catchAll, handlers...)

	return nil
}

func checkHandlers(handlers []Handler) error {
	for _, handler := range handlers {
		if handler == nil {
			return ErrNilHandler
		}
	}

	return nil
}

func (d *Dispatcher) handlersFor(eventType string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handlers := make([]Handler, 0, len(d.handlers[eventType])+len(d.catchAll))
	handlers = append(handlers, d.handlers[eventType]...)
	handlers = append(handlers, d.catchAll...)

	return handlers
}

// Publish delivers events in slice order. All handlers of one event run concurrently and have
// finished before the next event is delivered. The first failing event aborts the batch; the returned
// error wraps ErrDispatchFailed and an *EventError naming the event.
func (d *Dispatcher) Publish(ctx context.Context, events kernel.DomainEvents) error {
	if len(events) == 0 {
		return nil
	}

	ctx, op := d.instr.Start(ctx, opPublish, map[string]string{logAttrEventCount: strconv.Itoa(len(events))})

	for i, event := range events {
		if event == nil {
			err := errors.Join(ErrDispatchFailed, &EventError{Index: i, Err: kernel.ErrContractViolation})
			op.Failure(err, errTypeInvalidInput, logAttrEventIndex, i)

			return err
		}

		if deliverErr := d.deliver(ctx, i, event); deliverErr != nil {
			err := errors.Join(ErrDispatchFailed, &EventError{Index: i, EventType: event.EventType(), Err: deliverErr})
			op.Failure(err, errTypeHandler, logAttrEventIndex, i, logAttrEventType, event.EventType())

			return err
		}
	}

	op.Success(nil, logAttrEventCount, len(events))

	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, index int, event kernel.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	handlers := d.handlersFor(event.EventType())
	if len(handlers) == 0 {
		return nil
	}

	deliverOnce := func(ctx context.Context) error {
		group, groupCtx := errgroup.WithContext(ctx)
		if d.concurrentLimit > 0 {
			group.SetLimit(d.concurrentLimit)
		}

		for _, handler := range handlers {
			group.Go(func() error {
				return handler.Handle(groupCtx, event)
			})
		}

		return group.Wait()
	}

	if !d.retry {
		return deliverOnce(ctx)
	}

	meta, err := RetryWithExponentialBackoff(ctx, deliverOnce, d.retryOptions...)
	if err == nil && meta.Attempts > 1 {
		d.instr.Info(ctx, logMsgEventRetried, logAttrEventIndex, index, logAttrEventType, event.EventType(), logAttrAttempts, meta.Attempts)
	}

	return err
}

// DispatchAndClear publishes the pending events of source and clears its buffer only when all of them
// were delivered. On failure the buffer is left untouched so the caller can retry or discard it.
func (d *Dispatcher) DispatchAndClear(ctx context.Context, source kernel.EventSource) error {
	events := source.DomainEvents()
	if len(events) == 0 {
		return nil
	}

	if err := d.Publish(ctx, events); err != nil {
		return err
	}

	source.ClearDomainEvents()

	return nil
}

var _ Publisher = (*Dispatcher)(nil)
