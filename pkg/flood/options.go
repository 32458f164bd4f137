package flood

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/eventflood/pkg/flood/config"
	"github.com/randalmurphal/eventflood/pkg/flood/diagnostics"
)

// DefaultPulsetime is the largest gap filled when no pulsetime is configured.
const DefaultPulsetime = config.DefaultPulsetime

// options holds Flooder configuration shared by every run.
type options struct {
	pulsetime time.Duration
	logger    *slog.Logger
	handler   any // func(Diagnostic[P]), checked in New
	store     diagnostics.Store
	metrics   bool
	tracing   bool
}

func defaultOptions() options {
	return options{pulsetime: DefaultPulsetime}
}

// Option configures a Flooder.
type Option func(*options)

// WithPulsetime sets the largest gap that gets a dummy filler.
// Default: 5s. Zero disables filling; negative values make New fail.
//
// Example:
//
//	f, err := flood.NewData(flood.WithPulsetime(10 * time.Second))
func WithPulsetime(d time.Duration) Option {
	return func(o *options) {
		o.pulsetime = d
	}
}

// WithLogger enables structured logging of runs and overlap warnings.
// A nil logger (the default) disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDiagnosticHandler registers a callback invoked once per overlap
// diagnostic, in time order, after each run. Flooding continues regardless
// of what the handler does.
//
// The handler's payload type must match the Flooder's, otherwise New
// returns ErrHandlerType.
func WithDiagnosticHandler[P Equaler[P]](fn func(Diagnostic[P])) Option {
	return func(o *options) {
		if fn != nil {
			o.handler = fn
		}
	}
}

// WithDiagnosticStore persists every diagnostic, keyed by run ID.
// Payloads are stored as JSON. Store failures are logged and otherwise ignored.
func WithDiagnosticStore(store diagnostics.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithMetrics enables OpenTelemetry metrics via the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metrics = enabled
	}
}

// WithTracing enables OpenTelemetry tracing via the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		o.tracing = enabled
	}
}

// runConfig holds per-run settings.
type runConfig struct {
	runID string
}

// RunOption configures a single Flood call.
type RunOption func(*runConfig)

// WithRunID sets the run ID used in logs, spans, and stored diagnostics.
// Default: a random UUID per run.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}
