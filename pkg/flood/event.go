package flood

import (
	"fmt"
	"reflect"
	"time"
)

// Equaler is the capability flooding needs from a payload: structural
// equality against another payload of the same type.
type Equaler[P any] interface {
	Equal(other P) bool
}

// Event is a closed-open interval [Timestamp, Timestamp+Duration) carrying a payload.
// Events are values; flooding never modifies an input event, it only builds new ones.
type Event[P Equaler[P]] struct {
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Data      P             `json:"data"`
}

// NewEvent creates an event, rejecting negative durations.
func NewEvent[P Equaler[P]](timestamp time.Time, duration time.Duration, data P) (Event[P], error) {
	if duration < 0 {
		return Event[P]{}, fmt.Errorf("%w: %s", ErrNegativeDuration, duration)
	}
	return Event[P]{Timestamp: timestamp, Duration: duration, Data: data}, nil
}

// End returns the exclusive end of the event's interval.
func (e Event[P]) End() time.Time {
	return e.Timestamp.Add(e.Duration)
}

// Equal reports whether two events cover the same interval with equal payloads.
// Timestamps are compared as instants, so location differences are ignored.
func (e Event[P]) Equal(other Event[P]) bool {
	return e.Timestamp.Equal(other.Timestamp) &&
		e.Duration == other.Duration &&
		e.Data.Equal(other.Data)
}

// String formats the event for logs and error messages.
func (e Event[P]) String() string {
	return fmt.Sprintf("Event(%s, %s, %v)", e.Timestamp.Format(time.RFC3339Nano), e.Duration, e.Data)
}

// Data is a free-form event payload keyed by string, the shape ActivityWatch
// watchers report (e.g. {"app": "firefox", "title": "..."}).
type Data map[string]any

// Equal reports deep structural equality. A nil Data equals an empty one.
func (d Data) Equal(other Data) bool {
	if len(d) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(d, other)
}

// DummyType is the reserved "type" value marking filler events.
const DummyType = "dummy"

// DummyData returns the payload used for filler events: {"type": "dummy"}.
// Real payloads must not use this exact shape.
func DummyData() Data {
	return Data{"type": DummyType}
}

// IsDummy reports whether d is the default filler payload from DummyData.
// Fillers from a Flooder with a configured dummy type are matched by
// Flooder.IsFiller instead.
func (d Data) IsDummy() bool {
	return d.Equal(DummyData())
}
