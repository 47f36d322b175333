package observability

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	logMsgOperation   = "operation: "
	logMsgSQLExecuted = "executed sql for: "
	logAttrError      = "error"
	logAttrErrorType  = "error_type"
	logAttrQuery      = "query"
	logAttrDurationMS = "duration_ms"
	labelOperation    = "operation"
	labelStatus       = "status"
	labelErrorType    = "error_type"
	attrDurationMS    = "duration_ms"
	metricSuffixTime  = "_duration_seconds"
	metricSuffixError = "_errors_total"
	metricSuffixCount = "_total"
)

// Instrumentation bundles the optional observability ports of a component.
// Every port may be nil; the zero Instrumentation does nothing.
type Instrumentation struct {
	Logger           Logger
	ContextualLogger ContextualLogger
	Metrics          MetricsCollector
	Tracing          TracingCollector
}

// Operation is one instrumented unit of work, started with Instrumentation.Start.
type Operation struct {
	instr Instrumentation
	ctx   context.Context
	name  string
	start time.Time
	span  SpanContext
}

// Start opens a span (if tracing is configured) and starts timing the operation.
// The returned context carries the span and should be passed to downstream calls.
func (i Instrumentation) Start(ctx context.Context, name string, attrs map[string]string) (context.Context, *Operation) {
	var span SpanContext

	if i.Tracing != nil {
		spanAttrs := map[string]string{labelOperation: name}
		for key, value := range attrs {
			spanAttrs[key] = value
		}

		ctx, span = i.Tracing.StartSpan(ctx, name, spanAttrs)
	}

	return ctx, &Operation{instr: i, ctx: ctx, name: name, start: time.Now(), span: span}
}

// Duration returns the time elapsed since the operation was started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.start)
}

// Success finishes the operation: duration metric, counter, span status, and an info log line.
// logArgs are appended to the log line as key-value pairs.
func (o *Operation) Success(attrs map[string]string, logArgs ...any) {
	duration := o.Duration()

	o.instr.RecordDuration(o.ctx, metricName(o.name)+metricSuffixTime, duration, o.labels(StatusSuccess))
	o.instr.incrementCounter(o.ctx, metricName(o.name)+metricSuffixCount, o.labels(StatusSuccess))
	o.finishSpan(StatusSuccess, duration, attrs)

	args := append([]any{logAttrDurationMS, ToMilliseconds(duration)}, logArgs...)
	o.instr.Info(o.ctx, logMsgOperation+o.name, args...)
}

// Failure finishes the operation as failed: duration and error metrics, span status, and an error log line.
// errorType is a low-cardinality classification used as a metric label.
func (o *Operation) Failure(err error, errorType string, logArgs ...any) {
	duration := o.Duration()
	status := StatusFor(err)

	labels := o.labels(status)
	labels[labelErrorType] = errorType

	o.instr.RecordDuration(o.ctx, metricName(o.name)+metricSuffixTime, duration, o.labels(status))
	o.instr.incrementCounter(o.ctx, metricName(o.name)+metricSuffixError, labels)
	o.finishSpan(status, duration, map[string]string{labelErrorType: errorType})

	args := []any{logAttrError, errorString(err), logAttrErrorType, errorType, logAttrDurationMS, ToMilliseconds(duration)}
	args = append(args, logArgs...)
	o.instr.Error(o.ctx, logMsgOperation+o.name, args...)
}

func (o *Operation) labels(status string) map[string]string {
	return map[string]string{labelOperation: o.name, labelStatus: status}
}

func (o *Operation) finishSpan(status string, duration time.Duration, attrs map[string]string) {
	if o.instr.Tracing == nil || o.span == nil {
		return
	}

	o.span.SetStatus(status)
	o.span.AddAttribute(attrDurationMS, fmt.Sprintf("%.2f", ToMilliseconds(duration)))
	o.instr.Tracing.FinishSpan(o.span, status, attrs)
}

// LogSQL logs an executed SQL statement at debug level.
func (i Instrumentation) LogSQL(ctx context.Context, action string, query string, duration time.Duration) {
	i.Debug(ctx, logMsgSQLExecuted+action, logAttrDurationMS, ToMilliseconds(duration), logAttrQuery, query)
}

// RecordValue records a gauge-like value, preferring the context-aware collector method.
func (i Instrumentation) RecordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if i.Metrics == nil {
		return
	}

	if contextual, ok := i.Metrics.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	i.Metrics.RecordValue(metric, value, labels)
}

// IncrementCounter increments a counter, preferring the context-aware collector method.
func (i Instrumentation) IncrementCounter(ctx context.Context, metric string, labels map[string]string) {
	i.incrementCounter(ctx, metric, labels)
}

// Debug logs to both the plain and the contextual logger, whichever are configured.
func (i Instrumentation) Debug(ctx context.Context, msg string, args ...any) {
	if i.Logger != nil {
		i.Logger.Debug(msg, args...)
	}

	if i.ContextualLogger != nil {
		i.ContextualLogger.DebugContext(ctx, msg, args...)
	}
}

// Info logs to both the plain and the contextual logger, whichever are configured.
func (i Instrumentation) Info(ctx context.Context, msg string, args ...any) {
	if i.Logger != nil {
		i.Logger.Info(msg, args...)
	}

	if i.ContextualLogger != nil {
		i.ContextualLogger.InfoContext(ctx, msg, args...)
	}
}

// Warn logs to both the plain and the contextual logger, whichever are configured.
func (i Instrumentation) Warn(ctx context.Context, msg string, args ...any) {
	if i.Logger != nil {
		i.Logger.Warn(msg, args...)
	}

	if i.ContextualLogger != nil {
		i.ContextualLogger.WarnContext(ctx, msg, args...)
	}
}

// Error logs to both the plain and the contextual logger, whichever are configured.
func (i Instrumentation) Error(ctx context.Context, msg string, args ...any) {
	if i.Logger != nil {
		i.Logger.Error(msg, args...)
	}

	if i.ContextualLogger != nil {
		i.ContextualLogger.ErrorContext(ctx, msg, args...)
	}
}

// RecordDuration records a duration, preferring the context-aware collector method.
func (i Instrumentation) RecordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if i.Metrics == nil {
		return
	}

	if contextual, ok := i.Metrics.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	i.Metrics.RecordDuration(metric, duration, labels)
}

func (i Instrumentation) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if i.Metrics == nil {
		return
	}

	if contextual, ok := i.Metrics.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	i.Metrics.IncrementCounter(metric, labels)
}

// StatusFor maps an error to a span/metric status.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// metricName turns "outbox.append" into "outbox_append".
func metricName(operation string) string {
	return strings.ReplaceAll(operation, ".", "_")
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
