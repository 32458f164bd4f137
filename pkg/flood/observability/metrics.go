package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records flood metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordFlood records a completed or rejected flood run.
	RecordFlood(ctx context.Context, success bool, duration time.Duration, eventsIn, eventsOut int)

	// RecordOutcomes records how many adjacent pairs ended in each outcome.
	// Keys are outcome names ("filled", "merged", "conflict", "unchanged").
	RecordOutcomes(ctx context.Context, counts map[string]int)

	// RecordFilled records the total gap time covered by dummy events in one run.
	RecordFilled(ctx context.Context, filled time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	runs      metric.Int64Counter
	latency   metric.Float64Histogram
	eventsIn  metric.Int64Counter
	eventsOut metric.Int64Counter
	outcomes  metric.Int64Counter
	filled    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventflood")

	runs, err := meter.Int64Counter("eventflood.runs",
		metric.WithDescription("Number of flood runs"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("eventflood.latency_ms",
		metric.WithDescription("Flood run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	eventsIn, err := meter.Int64Counter("eventflood.events.in",
		metric.WithDescription("Number of events passed to flood"),
	)
	if err != nil {
		return nil, err
	}

	eventsOut, err := meter.Int64Counter("eventflood.events.out",
		metric.WithDescription("Number of events produced by flood"),
	)
	if err != nil {
		return nil, err
	}

	outcomes, err := meter.Int64Counter("eventflood.outcomes",
		metric.WithDescription("Number of adjacent event pairs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	filled, err := meter.Float64Histogram("eventflood.filled_ms",
		metric.WithDescription("Gap time covered by dummy events per run"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		runs:      runs,
		latency:   latency,
		eventsIn:  eventsIn,
		eventsOut: eventsOut,
		outcomes:  outcomes,
		filled:    filled,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordFlood records a flood run.
func (m *otelMetrics) RecordFlood(ctx context.Context, success bool, duration time.Duration, eventsIn, eventsOut int) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.runs.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.eventsIn.Add(ctx, int64(eventsIn))
	m.eventsOut.Add(ctx, int64(eventsOut))
}

// RecordOutcomes records pair outcome counts. Zero counts are skipped.
func (m *otelMetrics) RecordOutcomes(ctx context.Context, counts map[string]int) {
	for outcome, n := range counts {
		if n == 0 {
			continue
		}
		m.outcomes.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RecordFilled records filled gap time.
func (m *otelMetrics) RecordFilled(ctx context.Context, filled time.Duration) {
	m.filled.Record(ctx, float64(filled.Milliseconds()))
}
