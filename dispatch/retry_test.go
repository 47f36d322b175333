package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/dispatch"
	"github.com/AntonStoeckl/ddd-kernel-go/observability/observabilitytest"
)

// failingTimes returns a RetryableFunc that fails with err the first n calls, and a pointer to its call count.
func failingTimes(n int, err error) (dispatch.RetryableFunc, *int) {
	calls := 0

	return func(context.Context) error {
		calls++
		if calls <= n {
			return err
		}

		return nil
	}, &calls
}

func Test_RetryWithExponentialBackoff_SucceedsFirstTime(t *testing.T) {
	// arrange
	fn, calls := failingTimes(0, nil)

	// act
	meta, err := dispatch.RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, dispatch.RetryMetadata{Attempts: 1, LastErrorType: "none"}, meta)
}

func Test_RetryWithExponentialBackoff_RetriesTransientErrors(t *testing.T) {
	// arrange
	fn, calls := failingTimes(2, dispatch.Transient(errors.New("temporarily unavailable")))

	// act
	meta, err := dispatch.RetryWithExponentialBackoff(context.Background(), fn,
		dispatch.WithBaseDelay(time.Millisecond),
		dispatch.WithJitterFactor(0),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 3, meta.Attempts)
	assert.Equal(t, 3*time.Millisecond, meta.TotalDelay, "waits of 1ms and 2ms")
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_PermanentErrorFailsFast(t *testing.T) {
	// arrange
	permanent := errors.New("invalid address")
	fn, calls := failingTimes(5, permanent)

	// act
	meta, err := dispatch.RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "other", meta.LastErrorType)
	assert.Zero(t, meta.TotalDelay)
}

func Test_RetryWithExponentialBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	// arrange
	metrics := observabilitytest.NewMetricsCollectorSpy()
	fn, calls := failingTimes(10, dispatch.Transient(errors.New("still down")))

	// act
	meta, err := dispatch.RetryWithExponentialBackoff(context.Background(), fn,
		dispatch.WithMaxAttempts(3),
		dispatch.WithBaseDelay(time.Millisecond),
		dispatch.WithJitterFactor(0),
		dispatch.WithRetryMetrics(metrics, "notify"),
	)

	// assert
	require.ErrorIs(t, err, dispatch.ErrTransient)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 3, meta.Attempts)
	assert.Equal(t, "transient", meta.LastErrorType)
	assert.Len(t, metrics.ByMetric("dispatch_retries_total"), 2)
	assert.Len(t, metrics.ByMetric("dispatch_retry_delay_seconds"), 2)
	assert.Len(t, metrics.ByMetric("dispatch_max_retries_reached_total"), 1)
}

func Test_RetryWithExponentialBackoff_StopsWhenCanceledDuringWait(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(context.Context) error {
		cancel()
		return dispatch.Transient(errors.New("down"))
	}

	// act
	meta, err := dispatch.RetryWithExponentialBackoff(ctx, fn, dispatch.WithBaseDelay(time.Second))

	// assert
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_NeverRetriesCanceledContext(t *testing.T) {
	// arrange
	fn, calls := failingTimes(5, dispatch.Transient(context.Canceled))

	// act
	meta, err := dispatch.RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RejectsInvalidOptions(t *testing.T) {
	fn, calls := failingTimes(0, nil)

	cases := map[string]struct {
		option  dispatch.RetryOption
		wantErr error
	}{
		"zero attempts":    {dispatch.WithMaxAttempts(0), dispatch.ErrInvalidMaxAttempts},
		"negative delay":   {dispatch.WithBaseDelay(-time.Millisecond), dispatch.ErrNegativeBaseDelay},
		"jitter above one": {dispatch.WithJitterFactor(1.5), dispatch.ErrInvalidJitterFactor},
		"nil metrics":      {dispatch.WithRetryMetrics(nil, "notify"), dispatch.ErrNilMetricsCollector},
		"empty operation": {
			dispatch.WithRetryMetrics(observabilitytest.NewMetricsCollectorSpy(), ""),
			dispatch.ErrEmptyOperation,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dispatch.RetryWithExponentialBackoff(context.Background(), fn, tc.option)

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Zero(t, *calls)
}

func Test_Transient(t *testing.T) {
	cause := errors.New("cause")

	assert.NoError(t, dispatch.Transient(nil))
	assert.ErrorIs(t, dispatch.Transient(cause), dispatch.ErrTransient)
	assert.ErrorIs(t, dispatch.Transient(cause), cause)
}
