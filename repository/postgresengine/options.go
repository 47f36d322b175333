package postgresengine

import (
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
)

// Option defines a functional option for configuring a DocumentRepository.
type Option func(*config) error

type config struct {
	instr observability.Instrumentation
}

// WithLogger sets the logger for the DocumentRepository.
func WithLogger(logger observability.Logger) Option {
	return func(o *config) error {
		o.instr.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the DocumentRepository.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(o *config) error {
		o.instr.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the DocumentRepository.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(o *config) error {
		o.instr.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the DocumentRepository.
func WithTracing(collector observability.TracingCollector) Option {
	return func(o *config) error {
		o.instr.Tracing = collector
		return nil
	}
}
