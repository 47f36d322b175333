package config

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/dispatch"
)

var ErrInvalidRelayInterval = errors.New("relay interval must be positive")

// DispatchConfig tunes the dispatcher retries and the outbox relay.
type DispatchConfig struct {
	RetryMaxAttempts      int           `env:"RETRY_MAX_ATTEMPTS"      envDefault:"6"`
	RetryBaseDelay        time.Duration `env:"RETRY_BASE_DELAY"        envDefault:"10ms"`
	RetryJitterFactor     float64       `env:"RETRY_JITTER_FACTOR"     envDefault:"0.3"`
	MaxConcurrentHandlers int           `env:"MAX_CONCURRENT_HANDLERS" envDefault:"0"`
	RelayInterval         time.Duration `env:"RELAY_INTERVAL"          envDefault:"1s"`
	RelayBatchSize        int           `env:"RELAY_BATCH_SIZE"        envDefault:"100"`
}

func (c DispatchConfig) validate() error {
	if c.RelayInterval <= 0 {
		return ErrInvalidRelayInterval
	}

	if c.RetryMaxAttempts <= 0 {
		return dispatch.ErrInvalidMaxAttempts
	}

	if c.RetryBaseDelay < 0 {
		return dispatch.ErrNegativeBaseDelay
	}

	if c.RetryJitterFactor < 0.0 || c.RetryJitterFactor > 1.0 {
		return dispatch.ErrInvalidJitterFactor
	}

	return nil
}

// RetryOptions maps the retry settings.
func (c DispatchConfig) RetryOptions() []dispatch.RetryOption {
	return []dispatch.RetryOption{
		dispatch.WithMaxAttempts(c.RetryMaxAttempts),
		dispatch.WithBaseDelay(c.RetryBaseDelay),
		dispatch.WithJitterFactor(c.RetryJitterFactor),
	}
}

// DispatcherOptions enables retries and, if set, the handler concurrency limit.
func (c DispatchConfig) DispatcherOptions() []dispatch.Option {
	options := []dispatch.Option{dispatch.WithRetry(c.RetryOptions()...)}

	if c.MaxConcurrentHandlers > 0 {
		options = append(options, dispatch.WithMaxConcurrentHandlers(c.MaxConcurrentHandlers))
	}

	return options
}

func (c DispatchConfig) RelayOptions() []dispatch.RelayOption {
	return []dispatch.RelayOption{dispatch.WithBatchSize(c.RelayBatchSize)}
}
