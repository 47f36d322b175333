package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrDispatchFailed   = errors.New("dispatching domain events failed")
	ErrEmptyEventType   = errors.New("empty event type supplied")
	ErrNilHandler       = errors.New("handler must not be nil")
	ErrNilDependency    = errors.New("relay dependency must not be nil")
	ErrInvalidBatchSize = errors.New("batch size must be greater than zero")
	ErrInvalidLimit     = errors.New("concurrency limit must be greater than zero")
	ErrInvalidInterval  = errors.New("relay interval must be greater than zero")
	ErrRelayFailed      = errors.New("relaying outbox records failed")

	// ErrTransient marks an error as retryable, see Transient.
	ErrTransient = errors.New("transient error")
)

// Transient marks err as retryable by RetryWithExponentialBackoff. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}

	return errors.Join(ErrTransient, err)
}

// EventError identifies the event of a batch whose delivery failed.
type EventError struct {
	Index     int
	EventType string
	Err       error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event #%d (%s): %v", e.Index, e.EventType, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}
