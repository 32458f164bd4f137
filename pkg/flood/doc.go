/*
Package flood implements event flooding: filling short gaps between
time-stamped events and coalescing overlapping events that carry the same
data, as done for ActivityWatch activity buckets.

# Overview

An Event covers [Timestamp, Timestamp+Duration) and carries a payload P
that can compare itself for equality (Equaler). Flooding sorts events by
timestamp and resolves each adjacent pair:

  - a gap shorter than the pulsetime is filled with a dummy event
  - overlapping or abutting events with equal data are merged
  - overlapping events with differing data are kept, and a Diagnostic is
    reported
  - anything else passes through unchanged

# Basic Usage

For map payloads use Data and FloodData:

	events := []flood.Event[flood.Data]{
	    {Timestamp: t0, Duration: 8 * time.Second, Data: flood.Data{"app": "editor"}},
	    {Timestamp: t0.Add(10 * time.Second), Duration: 8 * time.Second, Data: flood.Data{"app": "browser"}},
	}

	res, err := flood.FloodData(events, 5*time.Second)
	// res.Events: editor, dummy (2s), browser

# Custom Payloads

Any type with an Equal method works:

	type Label string

	func (l Label) Equal(o Label) bool { return l == o }

	res, err := flood.Flood(events, 5*time.Second, Label("idle"))

# Flooder

A Flooder fixes the configuration and reports each run through structured
logging, OpenTelemetry metrics and tracing, a diagnostic callback, and a
diagnostics.Store:

	f, err := flood.NewData(
	    flood.WithPulsetime(5*time.Second),
	    flood.WithLogger(logger),
	    flood.WithDiagnosticStore(store),
	    flood.WithMetrics(true),
	)
	res, err := f.Flood(ctx, events)

# Overlaps Of Three Or More Events

Pairs are resolved once each, from the last pair to the first. A merge is
visible to the pair to its left, but an event is never compared with
anything other than its current neighbour. When three or more events overlap
with mixed payloads the result may still contain overlaps.

Flooding is therefore not always idempotent. When an event is swallowed by an
equal-payload event that contains it, its right-hand neighbour was compared
only with the swallowed event, never with the container:

	a[0s,100s)  a[5s,8s)  a[20s,130s)   ->  a[0s,100s)  a[20s,130s)
	a[0s,100s)  a[20s,130s)             ->  a[0s,130s)

With a differing payload on the right, the first run reports nothing and a
second run reports the overlap. Inputs without overlaps flood to a fixed
point in one run.
*/
package flood
