package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordFlood does nothing.
func (NoopMetrics) RecordFlood(_ context.Context, _ bool, _ time.Duration, _, _ int) {}

// RecordOutcomes does nothing.
func (NoopMetrics) RecordOutcomes(_ context.Context, _ map[string]int) {}

// RecordFilled does nothing.
func (NoopMetrics) RecordFilled(_ context.Context, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartFloodSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartFloodSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
