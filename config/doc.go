// Package config loads process configuration from environment variables.
//
// All variables share the DDD_KERNEL_ prefix, e.g. DDD_KERNEL_POSTGRES_DSN or DDD_KERNEL_DISPATCH_RELAY_INTERVAL.
// Durations use Go syntax ("250ms", "5m"), the log level uses slog names ("DEBUG", "INFO").
package config
