package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Backoff_DoublesPerAttempt(t *testing.T) {
	policy := &retryPolicy{baseDelay: 10 * time.Millisecond}

	assert.Equal(t, 10*time.Millisecond, policy.backoff(1))
	assert.Equal(t, 20*time.Millisecond, policy.backoff(2))
	assert.Equal(t, 160*time.Millisecond, policy.backoff(5))
}

func Test_Backoff_IsCappedForLateAttempts(t *testing.T) {
	policy := &retryPolicy{baseDelay: time.Second, jitterFactor: 1.0}

	for _, attempt := range []int{13, 40, 64, 100, 1000} {
		delay := policy.backoff(attempt)

		assert.Positive(t, delay, "attempt %d", attempt)
		assert.GreaterOrEqual(t, delay, maxBackoff, "attempt %d", attempt)
		assert.LessOrEqual(t, delay, 2*maxBackoff, "attempt %d", attempt)
	}
}
