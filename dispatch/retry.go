package dispatch

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/observability"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
	maxBackoff          = time.Hour

	metricRetries           = "dispatch_retries_total"
	metricRetryDelay        = "dispatch_retry_delay_seconds"
	metricMaxRetriesReached = "dispatch_max_retries_reached_total"
	labelOperation          = "operation"
	labelAttemptNumber      = "attempt_number"
	labelErrorType          = "error_type"
	labelFinalErrorType     = "final_error_type"

	errorTypeNone            = "none"
	errorTypeTransient       = "transient"
	errorTypeCanceled        = "context_canceled"
	errorTypeDeadlineExceeds = "context_deadline_exceeded"
	errorTypeOther           = "other"
)

var (
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")
	ErrEmptyOperation      = errors.New("operation must not be empty")
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one attempt of a retried call.
type RetryableFunc func(ctx context.Context) error

// RetryMetadata describes how a retried call went.
type RetryMetadata struct {
	Attempts      int
	TotalDelay    time.Duration
	LastErrorType string
}

// RetryOption configures RetryWithExponentialBackoff.
type RetryOption func(*retryPolicy) error

type retryPolicy struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	metrics      observability.Instrumentation
	operation    string
}

// WithMaxAttempts sets the number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(p *retryPolicy) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		p.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the first retry. Every further retry doubles it.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(p *retryPolicy) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		p.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the share of a delay, from 0.0 to 1.0, that is added at random.
func WithJitterFactor(factor float64) RetryOption {
	return func(p *retryPolicy) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		p.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics records retries, delays and exhausted calls, labeled with operation.
func WithRetryMetrics(collector observability.MetricsCollector, operation string) RetryOption {
	return func(p *retryPolicy) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if operation == "" {
			return ErrEmptyOperation
		}

		p.metrics = observability.Instrumentation{Metrics: collector}
		p.operation = operation

		return nil
	}
}

// RetryWithExponentialBackoff calls fn until it succeeds, fails with an error not marked Transient,
// or the attempts are used up. With the defaults the waits are 10, 20, 40, 80 and 160 ms plus up to 30% jitter.
//
// A cancelled or expired ctx ends the call right away, even during a wait.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetadata, error) {
	policy := &retryPolicy{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(policy); err != nil {
			return RetryMetadata{}, err
		}
	}

	meta := RetryMetadata{LastErrorType: errorTypeNone}

	for attempt := 1; ; attempt++ {
		meta.Attempts = attempt

		err := fn(ctx)
		meta.LastErrorType = errorType(err)

		if err == nil || !isRetryableError(err) {
			return meta, err
		}

		if attempt == policy.maxAttempts {
			policy.count(ctx, metricMaxRetriesReached, labelFinalErrorType, meta.LastErrorType)
			return meta, err
		}

		policy.count(ctx, metricRetries, labelAttemptNumber, strconv.Itoa(attempt), labelErrorType, meta.LastErrorType)

		delay := policy.backoff(attempt)
		policy.metrics.RecordDuration(ctx, metricRetryDelay, delay, policy.labels(labelAttemptNumber, strconv.Itoa(attempt)))

		if waitErr := sleep(ctx, delay); waitErr != nil {
			meta.LastErrorType = errorType(waitErr)
			return meta, waitErr
		}

		meta.TotalDelay += delay
	}
}

// backoff returns the wait after the given failed attempt, before jitter capped at maxBackoff.
func (p *retryPolicy) backoff(attempt int) time.Duration {
	delay := maxBackoff
	if shift := attempt - 1; shift < 63 && p.baseDelay <= maxBackoff>>shift {
		delay = p.baseDelay << shift
	}

	jitter := rand.Float64() * p.jitterFactor * float64(delay) //nolint:gosec // jitter needs no crypto randomness

	return delay + time.Duration(jitter)
}

func (p *retryPolicy) count(ctx context.Context, metric string, labelPairs ...string) {
	p.metrics.IncrementCounter(ctx, metric, p.labels(labelPairs...))
}

func (p *retryPolicy) labels(pairs ...string) map[string]string {
	labels := map[string]string{labelOperation: p.operation}
	for i := 0; i+1 < len(pairs); i += 2 {
		labels[pairs[i]] = pairs[i+1]
	}

	return labels
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isRetryableError reports whether err was marked with Transient.
// Cancelled or expired contexts are never retried.
func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errors.Is(err, ErrTransient)
}

// errorType is the low-cardinality label value for err.
func errorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, context.Canceled):
		return errorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeDeadlineExceeds
	case errors.Is(err, ErrTransient):
		return errorTypeTransient
	default:
		return errorTypeOther
	}
}
