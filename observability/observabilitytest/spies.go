// Package observabilitytest provides spies for the observability ports, for use in tests.
package observabilitytest

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/observability"
)

// LogRecord is one captured log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy captures calls to both observability.Logger and observability.ContextualLogger.
type LoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewLoggerSpy creates an empty LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) record(level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: args})
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

// Records returns a copy of all captured log calls.
func (s *LoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]LogRecord(nil), s.records...)
}

// HasMessage reports whether a record with the given level and message was captured.
func (s *LoggerSpy) HasMessage(level string, msg string) bool {
	for _, r := range s.Records() {
		if r.Level == level && r.Message == msg {
			return true
		}
	}

	return false
}

// MetricRecord is one captured metrics call. Kind is "duration", "counter", or "value".
type MetricRecord struct {
	Kind     string
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy captures metrics calls. It implements observability.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu      sync.Mutex
	records []MetricRecord
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) add(r MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.Labels = maps.Clone(r.Labels)
	s.records = append(s.records, r)
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.add(MetricRecord{Kind: "duration", Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.add(MetricRecord{Kind: "counter", Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.add(MetricRecord{Kind: "value", Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// Records returns a copy of all captured metrics calls.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]MetricRecord(nil), s.records...)
}

// ByMetric returns the captured calls for one metric name.
func (s *MetricsCollectorSpy) ByMetric(metric string) []MetricRecord {
	found := make([]MetricRecord, 0)
	for _, r := range s.Records() {
		if r.Metric == metric {
			found = append(found, r)
		}
	}

	return found
}

// SpanRecord is one captured span, updated until it is finished.
type SpanRecord struct {
	Name       string
	Status     string
	Attributes map[string]string
	Finished   bool
}

// TracingCollectorSpy captures spans. It implements observability.TracingCollector.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpanRecord
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

type spySpan struct {
	owner  *TracingCollectorSpy
	record *SpanRecord
}

func (s *spySpan) SetStatus(status string) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()

	s.record.Status = status
}

func (s *spySpan) AddAttribute(key, value string) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()

	s.record.Attributes[key] = value
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, observability.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &SpanRecord{Name: name, Attributes: maps.Clone(attrs)}
	if record.Attributes == nil {
		record.Attributes = map[string]string{}
	}
	s.spans = append(s.spans, record)

	return ctx, &spySpan{owner: s, record: record}
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx observability.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*spySpan)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	span.record.Status = status
	span.record.Finished = true
	for key, value := range attrs {
		span.record.Attributes[key] = value
	}
}

// Spans returns copies of all captured spans.
func (s *TracingCollectorSpy) Spans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]SpanRecord, 0, len(s.spans))
	for _, span := range s.spans {
		copied := *span
		copied.Attributes = maps.Clone(span.Attributes)
		spans = append(spans, copied)
	}

	return spans
}

var (
	_ observability.Logger                     = (*LoggerSpy)(nil)
	_ observability.ContextualLogger           = (*LoggerSpy)(nil)
	_ observability.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
	_ observability.TracingCollector           = (*TracingCollectorSpy)(nil)
)
