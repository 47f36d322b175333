package postgresengine

import (
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithTableName sets the outbox table name for the Store.
func WithTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ErrEmptyTableNameSupplied
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger observability.Logger) Option {
	return func(s *Store) error {
		s.instr.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It receives the same messages as the plain logger, with the context of the operation for trace correlation.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(s *Store) error {
		s.instr.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(s *Store) error {
		s.instr.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
func WithTracing(collector observability.TracingCollector) Option {
	return func(s *Store) error {
		s.instr.Tracing = collector
		return nil
	}
}
