package flood

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/eventflood/pkg/flood/config"
	"github.com/randalmurphal/eventflood/pkg/flood/diagnostics"
	"github.com/randalmurphal/eventflood/pkg/flood/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stats counts how adjacent pairs were resolved during one run.
type Stats struct {
	Filled    int
	Merged    int
	Conflicts int
	Unchanged int
	// FilledTime is the total duration of inserted dummy events.
	FilledTime time.Duration
}

// Pairs returns the number of pair reductions performed.
func (s Stats) Pairs() int {
	return s.Filled + s.Merged + s.Conflicts + s.Unchanged
}

// Counts returns the per-outcome counts keyed by Outcome.String().
func (s Stats) Counts() map[string]int {
	return map[string]int{
		OutcomeFilled.String():    s.Filled,
		OutcomeMerged.String():    s.Merged,
		OutcomeConflict.String():  s.Conflicts,
		OutcomeUnchanged.String(): s.Unchanged,
	}
}

// Result is the output of one flood run.
type Result[P Equaler[P]] struct {
	// RunID identifies the run in logs, spans, and stored diagnostics.
	// Empty for the package-level Flood function.
	RunID string
	// Events is a freshly allocated slice in ascending timestamp order.
	Events []Event[P]
	// Diagnostics lists differing-payload overlaps in time order.
	Diagnostics []Diagnostic[P]
	Stats       Stats
}

// Flood sorts events by timestamp (stable) and floods every adjacent pair,
// scanning from the last pair to the first. The reduction of (i-1, i) feeds
// its first event into the comparison at (i-2, i-1), so chains of merges
// collapse in a single pass. Pairs are never revisited.
//
// Events with a negative duration are rejected with an *EventError wrapping
// ErrNegativeDuration. Empty and single-event inputs are returned sorted and
// otherwise unchanged. The input slice is not modified.
func Flood[P Equaler[P]](events []Event[P], pulsetime time.Duration, dummy P) (Result[P], error) {
	if pulsetime < 0 {
		return Result[P]{}, fmt.Errorf("%w: %s", ErrNegativePulsetime, pulsetime)
	}
	for i, e := range events {
		if e.Duration < 0 {
			return Result[P]{}, &EventError{Index: i, Event: e.String(), Err: ErrNegativeDuration}
		}
	}

	sorted := make([]Event[P], len(events))
	copy(sorted, events)
	slices.SortStableFunc(sorted, func(a, b Event[P]) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	if len(sorted) < 2 {
		return Result[P]{Events: sorted}, nil
	}

	var (
		stats Stats
		diags []Diagnostic[P]
		// out collects finished events right to left; head is the event
		// still open to merging with its left neighbour.
		out  = make([]Event[P], 0, len(sorted))
		head = sorted[len(sorted)-1]
	)
	for i := len(sorted) - 2; i >= 0; i-- {
		r := Reduce(sorted[i], head, pulsetime, dummy)

		switch r.Outcome {
		case OutcomeFilled:
			stats.Filled++
			stats.FilledTime += r.Events[1].Duration
		case OutcomeMerged:
			stats.Merged++
		case OutcomeConflict:
			stats.Conflicts++
			diags = append(diags, *r.Diagnostic)
		default:
			stats.Unchanged++
		}

		for j := len(r.Events) - 1; j >= 1; j-- {
			out = append(out, r.Events[j])
		}
		head = r.Events[0]
	}
	out = append(out, head)

	slices.Reverse(out)
	slices.Reverse(diags)
	return Result[P]{Events: out, Diagnostics: diags, Stats: stats}, nil
}

// FloodData floods Data events with the standard {"type": "dummy"} filler.
func FloodData(events []Event[Data], pulsetime time.Duration) (Result[Data], error) {
	return Flood(events, pulsetime, DummyData())
}

// Flooder runs Flood with a fixed configuration and reports each run through
// logging, metrics, tracing, a diagnostic handler, and a diagnostic store,
// all optional. A Flooder is safe for concurrent use.
type Flooder[P Equaler[P]] struct {
	pulsetime time.Duration
	dummy     P
	logger    *slog.Logger
	handler   func(Diagnostic[P])
	store     diagnostics.Store
	ownsStore bool
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	tracing   bool
}

// New creates a Flooder that fills gaps with events carrying dummy.
func New[P Equaler[P]](dummy P, opts ...Option) (*Flooder[P], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.pulsetime < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativePulsetime, o.pulsetime)
	}

	f := &Flooder[P]{
		pulsetime: o.pulsetime,
		dummy:     dummy,
		logger:    o.logger,
		store:     o.store,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
		tracing:   o.tracing,
	}

	if o.handler != nil {
		h, ok := o.handler.(func(Diagnostic[P]))
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrHandlerType, o.handler)
		}
		f.handler = h
	}
	if o.metrics {
		f.metrics = observability.NewMetricsRecorder()
	}
	if o.tracing {
		f.spans = observability.NewSpanManager()
	}
	return f, nil
}

// NewData creates a Flooder for Data payloads using DummyData as filler.
func NewData(opts ...Option) (*Flooder[Data], error) {
	return New(DummyData(), opts...)
}

// FromSettings creates a Data Flooder from loaded settings. Explicit opts are
// applied after the settings and win on conflict.
//
// If settings name a diagnostics database, the Flooder opens it and closes
// it in Close.
func FromSettings(s config.Settings, opts ...Option) (*Flooder[Data], error) {
	base := []Option{
		WithPulsetime(s.Pulsetime),
		WithMetrics(s.Metrics),
		WithTracing(s.Tracing),
	}

	var owned diagnostics.Store
	if s.DiagnosticsDB != "" {
		store, err := diagnostics.NewSQLiteStore(s.DiagnosticsDB)
		if err != nil {
			return nil, fmt.Errorf("open diagnostics store: %w", err)
		}
		owned = store
		base = append(base, WithDiagnosticStore(store))
	}

	f, err := New(Data{"type": s.DummyType}, append(base, opts...)...)
	if err != nil {
		if owned != nil {
			owned.Close()
		}
		return nil, err
	}
	f.ownsStore = owned != nil && f.store == owned
	if owned != nil && !f.ownsStore {
		owned.Close()
	}
	return f, nil
}

// Pulsetime returns the configured pulsetime.
func (f *Flooder[P]) Pulsetime() time.Duration {
	return f.pulsetime
}

// IsFiller reports whether e carries this Flooder's dummy payload.
func (f *Flooder[P]) IsFiller(e Event[P]) bool {
	return e.Data.Equal(f.dummy)
}

// Reduce floods a single adjacent pair with the Flooder's pulsetime and dummy.
func (f *Flooder[P]) Reduce(e1, e2 Event[P]) Reduction[P] {
	return Reduce(e1, e2, f.pulsetime, f.dummy)
}

// Flood floods events and reports the run. Errors are returned only for
// invalid input; reporting failures never affect the result.
//
// Example:
//
//	res, err := f.Flood(ctx, events, flood.WithRunID("import-42"))
func (f *Flooder[P]) Flood(ctx context.Context, events []Event[P], opts ...RunOption) (result Result[P], runErr error) {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}
	runID := rc.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := observability.EnrichLogger(f.logger, runID, f.pulsetime)
	elapsed := observability.TimedOperation()
	start := time.Now()
	observability.LogFloodStart(logger, len(events))

	spanCtx := ctx
	if f.tracing {
		var span trace.Span
		spanCtx, span = f.spans.StartFloodSpan(ctx, runID, len(events))
		defer func() {
			f.spans.EndSpanWithError(span, runErr)
		}()
	}

	result, runErr = Flood(events, f.pulsetime, f.dummy)
	result.RunID = runID
	f.metrics.RecordFlood(ctx, runErr == nil, time.Since(start), len(events), len(result.Events))
	if runErr != nil {
		observability.LogFloodError(logger, runErr)
		return result, runErr
	}

	f.metrics.RecordOutcomes(ctx, result.Stats.Counts())
	if result.Stats.FilledTime > 0 {
		f.metrics.RecordFilled(ctx, result.Stats.FilledTime)
	}

	for _, d := range result.Diagnostics {
		f.report(spanCtx, logger, runID, d)
	}

	observability.LogFloodComplete(logger, elapsed(), len(events), len(result.Events), len(result.Diagnostics))
	return result, nil
}

// report surfaces one diagnostic on every configured channel.
func (f *Flooder[P]) report(ctx context.Context, logger *slog.Logger, runID string, d Diagnostic[P]) {
	observability.LogOverlap(logger, d.First.String(), d.Second.String(), d.Overlap)

	if f.tracing {
		f.spans.AddSpanEvent(ctx, "eventflood.overlap",
			attribute.String("first.start", d.First.Timestamp.Format(time.RFC3339Nano)),
			attribute.String("second.start", d.Second.Timestamp.Format(time.RFC3339Nano)),
			attribute.Int64("overlap_ms", d.Overlap.Milliseconds()),
		)
	}

	if f.handler != nil {
		f.handler(d)
	}

	if f.store != nil {
		rec, err := newRecord(runID, d)
		if err != nil {
			observability.LogStoreError(logger, "encode", err)
			return
		}
		if err := f.store.Save(rec); err != nil {
			observability.LogStoreError(logger, "save", err)
		}
	}
}

func newRecord[P Equaler[P]](runID string, d Diagnostic[P]) (diagnostics.Record, error) {
	first, err := json.Marshal(d.First.Data)
	if err != nil {
		return diagnostics.Record{}, fmt.Errorf("encode first payload: %w", err)
	}
	second, err := json.Marshal(d.Second.Data)
	if err != nil {
		return diagnostics.Record{}, fmt.Errorf("encode second payload: %w", err)
	}
	return diagnostics.Record{
		RunID:          runID,
		FirstStart:     d.First.Timestamp,
		FirstDuration:  d.First.Duration,
		FirstData:      first,
		SecondStart:    d.Second.Timestamp,
		SecondDuration: d.Second.Duration,
		SecondData:     second,
		Overlap:        d.Overlap,
	}, nil
}

// Close releases a diagnostics store opened by FromSettings.
// Stores passed in with WithDiagnosticStore are left open.
func (f *Flooder[P]) Close() error {
	if f.ownsStore && f.store != nil {
		return f.store.Close()
	}
	return nil
}
