// Package observability provides structured logging, metrics, and tracing
// for flood runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds flood run context to a logger.
// Returns a new logger with run_id and pulsetime fields. The Log* helpers
// expect a logger enriched this way.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", 5*time.Second)
//	enriched.Info("flooding") // includes run_id, pulsetime
func EnrichLogger(logger *slog.Logger, runID string, pulsetime time.Duration) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Duration("pulsetime", pulsetime),
	)
}

// LogFloodStart logs the start of a flood run.
func LogFloodStart(logger *slog.Logger, events int) {
	if logger == nil {
		return
	}
	logger.Debug("flood starting",
		slog.Int("events_in", events),
	)
}

// LogFloodComplete logs a finished flood run.
func LogFloodComplete(logger *slog.Logger, durationMs float64, eventsIn, eventsOut, diagnostics int) {
	if logger == nil {
		return
	}
	logger.Info("flood completed",
		slog.Float64("duration_ms", durationMs),
		slog.Int("events_in", eventsIn),
		slog.Int("events_out", eventsOut),
		slog.Int("diagnostics", diagnostics),
	)
}

// LogFloodError logs a rejected flood run.
func LogFloodError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Error("flood failed",
		slog.String("error", err.Error()),
	)
}

// LogOverlap logs two overlapping events with differing payloads.
// This is a warning; both events are kept.
func LogOverlap(logger *slog.Logger, first, second string, overlap time.Duration) {
	if logger == nil {
		return
	}
	logger.Warn("events overlap with differing data",
		slog.String("first", first),
		slog.String("second", second),
		slog.Duration("overlap", overlap),
	)
}

// LogStoreError logs a diagnostics store failure (non-fatal).
func LogStoreError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("diagnostics store failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
