package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/ddd-kernel-go/observability"
)

// MetricsCollector implements observability.ContextualMetricsCollector with OpenTelemetry instruments:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created on first use per metric name and cached. It is safe for concurrent use.
type MetricsCollector struct {
	histograms *instruments[metric.Float64Histogram]
	counters   *instruments[metric.Int64Counter]
	gauges     *instruments[metric.Float64Gauge]
}

func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		histograms: newInstruments(func(name string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(name,
				metric.WithDescription("Duration of a kernel collaborator operation"),
				metric.WithUnit("s"),
			)
		}),
		counters: newInstruments(func(name string) (metric.Int64Counter, error) {
			return meter.Int64Counter(name, metric.WithDescription("Count of kernel collaborator operations"))
		}),
		gauges: newInstruments(func(name string) (metric.Float64Gauge, error) {
			return meter.Float64Gauge(name, metric.WithDescription("Current value reported by a kernel collaborator"))
		}),
	}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	labels map[string]string,
) {
	if histogram, ok := m.histograms.get(metricName); ok {
		histogram.Record(ctx, duration.Seconds(), withLabels(labels))
	}
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	if counter, ok := m.counters.get(metricName); ok {
		counter.Add(ctx, 1, withLabels(labels))
	}
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	if gauge, ok := m.gauges.get(metricName); ok {
		gauge.Record(ctx, value, withLabels(labels))
	}
}

// instruments caches one instrument kind by metric name.
type instruments[I any] struct {
	mu     sync.Mutex
	byName map[string]I
	create func(name string) (I, error)
}

func newInstruments[I any](create func(name string) (I, error)) *instruments[I] {
	return &instruments[I]{byName: make(map[string]I), create: create}
}

// get reports false when the meter refuses the name; the measurement is dropped then.
func (c *instruments[I]) get(name string) (I, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if instrument, exists := c.byName[name]; exists {
		return instrument, true
	}

	instrument, err := c.create(name)
	if err != nil {
		return instrument, false
	}

	c.byName[name] = instrument

	return instrument, true
}

// withLabels works for every instrument kind: MeasurementOption covers both Record and Add.
func withLabels(labels map[string]string) metric.MeasurementOption {
	return metric.WithAttributes(attributesOf(labels)...)
}

func attributesOf(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}

var _ observability.ContextualMetricsCollector = (*MetricsCollector)(nil)
