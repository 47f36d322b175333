// Package observability defines the logging, metrics, and tracing ports used by the infrastructure
// packages of this module, plus a small Instrumentation helper that drives all of them for one operation.
//
// The ports follow a dependency-free pattern: any backend can be integrated by implementing them.
// Ready-made OpenTelemetry implementations live in the oteladapters package.
//
// Usage:
//
//	instr := observability.Instrumentation{Logger: slog.Default(), Metrics: collector, Tracing: tracer}
//
//	ctx, op := instr.Start(ctx, "outbox.append", map[string]string{"event_count": "3"})
//	if err := doWork(ctx); err != nil {
//		op.Failure(err, "database_error")
//		return err
//	}
//	op.Success(nil)
package observability
