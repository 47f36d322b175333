// Package oteladapters implements the observability ports on top of OpenTelemetry.
//
// The outbox store, the document repository, the dispatcher and the unit of work all accept these
// adapters through their WithContextualLogger, WithMetrics and WithTracing options.
package oteladapters
