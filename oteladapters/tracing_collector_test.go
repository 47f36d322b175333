package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/oteladapters"
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	exporter, collector := givenTracingCollector()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "outbox.pending", map[string]string{"table": "outbox"})
	collector.FinishSpan(spanCtx, observability.StatusSuccess, map[string]string{"rows": "3"})

	// assert
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "outbox.pending", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "table", "outbox")
	assertSpanHasAttribute(t, spans[0], "rows", "3")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{status: observability.StatusSuccess, expectedCode: codes.Ok},
		{status: observability.StatusError, expectedCode: codes.Error},
		{status: observability.StatusCanceled, expectedCode: codes.Error},
		{status: observability.StatusTimeout, expectedCode: codes.Error},
		{status: "partial", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			exporter, collector := givenTracingCollector()
			_, spanCtx := collector.StartSpan(context.Background(), "op", nil)

			// act
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_UnknownStatus_IsKeptAsAttribute(t *testing.T) {
	// arrange
	exporter, collector := givenTracingCollector()
	_, spanCtx := collector.StartSpan(context.Background(), "op", nil)

	// act
	collector.FinishSpan(spanCtx, "partial", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanHasAttribute(t, spans[0], "status", "partial")
}

func Test_TracingCollector_NestsSpansViaContext(t *testing.T) {
	// arrange
	exporter, collector := givenTracingCollector()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "uow.save_changes", nil)
	_, child := collector.StartSpan(ctx, "outbox.append", nil)
	collector.FinishSpan(child, observability.StatusSuccess, nil)
	collector.FinishSpan(parent, observability.StatusSuccess, nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "outbox.append", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpanContext(t *testing.T) {
	// arrange
	exporter, collector := givenTracingCollector()

	// act
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, observability.StatusSuccess, nil)
	})

	// assert
	assert.Empty(t, exporter.GetSpans())
}

func Test_OTelSpanContext_AddAttribute(t *testing.T) {
	// arrange
	exporter, collector := givenTracingCollector()
	_, spanCtx := collector.StartSpan(context.Background(), "op", nil)

	// act
	spanCtx.AddAttribute("event_type", "OrderPlaced")
	collector.FinishSpan(spanCtx, observability.StatusSuccess, nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanHasAttribute(t, spans[0], "event_type", "OrderPlaced")
}

func Test_Instrumentation_WithOTelAdapters(t *testing.T) {
	// arrange
	exporter, tracing := givenTracingCollector()
	reader, metrics := givenMetricsCollector()
	instr := observability.Instrumentation{Metrics: metrics, Tracing: tracing}

	// act
	_, op := instr.Start(context.Background(), "outbox.append", map[string]string{"events": "2"})
	op.Success(nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "outbox.append", spans[0].Name)
	assertSpanHasAttribute(t, spans[0], "operation", "outbox.append")
	assertSpanHasAttribute(t, spans[0], "events", "2")

	resourceMetrics := collect(t, reader)
	findHistogramMetric(t, resourceMetrics, "outbox_append_duration_seconds")
	counter := findCounterMetric(t, resourceMetrics, "outbox_append_total")
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(1), counter.DataPoints[0].Value)
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func givenTracingCollector() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == expectedValue {
			return
		}
	}

	t.Errorf("span %s has no attribute %s=%s", span.Name, key, expectedValue)
}
