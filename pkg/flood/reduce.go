package flood

import "time"

// Outcome classifies what happened to an adjacent pair of events.
type Outcome int

const (
	// OutcomeUnchanged means both events passed through untouched.
	OutcomeUnchanged Outcome = iota

	// OutcomeFilled means a dummy event was inserted into a short gap.
	OutcomeFilled

	// OutcomeMerged means two overlapping or abutting events with equal
	// payloads were coalesced into one.
	OutcomeMerged

	// OutcomeConflict means the events overlap with differing payloads.
	// Both pass through and a Diagnostic is produced.
	OutcomeConflict
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFilled:
		return "filled"
	case OutcomeMerged:
		return "merged"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Diagnostic reports two overlapping events whose payloads differ.
// It is a warning: neither event is authoritative, so both are kept.
type Diagnostic[P Equaler[P]] struct {
	First  Event[P]
	Second Event[P]
	// Overlap is how long the two intervals share.
	Overlap time.Duration
}

// Reduction is the result of reducing one adjacent pair.
type Reduction[P Equaler[P]] struct {
	// Events holds one, two, or three events in time order.
	Events  []Event[P]
	Outcome Outcome
	// Diagnostic is non-nil only for OutcomeConflict.
	Diagnostic *Diagnostic[P]
}

// Reduce decides how to flood the adjacent pair (e1, e2).
// The caller guarantees e1.Timestamp <= e2.Timestamp.
//
// Rules, first match wins, with gap = e2.Timestamp - e1.End():
//
//	0 < gap < pulsetime          fill the gap with a dummy event
//	gap <= 0, equal payloads     merge into one event
//	gap < 0, differing payloads  keep both, report a Diagnostic
//	otherwise                    keep both
func Reduce[P Equaler[P]](e1, e2 Event[P], pulsetime time.Duration, dummy P) Reduction[P] {
	e1End := e1.End()
	gap := e2.Timestamp.Sub(e1End)

	if gap > 0 && gap < pulsetime {
		filler := Event[P]{Timestamp: e1End, Duration: gap, Data: dummy}
		return Reduction[P]{
			Events:  []Event[P]{e1, filler, e2},
			Outcome: OutcomeFilled,
		}
	}

	if gap <= 0 && e1.Data.Equal(e2.Data) {
		e2End := e2.End()
		if !e2End.After(e1End) {
			// e2 lies entirely within e1
			return Reduction[P]{Events: []Event[P]{e1}, Outcome: OutcomeMerged}
		}
		merged := Event[P]{
			Timestamp: e1.Timestamp,
			Duration:  e2End.Sub(e1.Timestamp),
			Data:      e1.Data,
		}
		return Reduction[P]{Events: []Event[P]{merged}, Outcome: OutcomeMerged}
	}

	if gap < 0 {
		shared := e1End
		if e2End := e2.End(); e2End.Before(shared) {
			shared = e2End
		}
		return Reduction[P]{
			Events:  []Event[P]{e1, e2},
			Outcome: OutcomeConflict,
			Diagnostic: &Diagnostic[P]{
				First:   e1,
				Second:  e2,
				Overlap: shared.Sub(e2.Timestamp),
			},
		}
	}

	return Reduction[P]{Events: []Event[P]{e1, e2}, Outcome: OutcomeUnchanged}
}
