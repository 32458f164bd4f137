package flood

import (
	"errors"
	"fmt"
)

// Sentinel errors for input validation.
var (
	// ErrNegativeDuration indicates an event whose duration is below zero.
	ErrNegativeDuration = errors.New("event duration is negative")

	// ErrNegativePulsetime indicates a flooder configured with a negative pulsetime.
	ErrNegativePulsetime = errors.New("pulsetime is negative")

	// ErrHandlerType indicates a diagnostic handler whose payload type does
	// not match the flooder's.
	ErrHandlerType = errors.New("diagnostic handler payload type mismatch")
)

// EventError wraps a validation error with the position of the offending
// event in the caller's input.
type EventError struct {
	// Index is the event's position in the unsorted input.
	Index int
	// Event is the rendered event, for diagnostics.
	Event string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EventError) Error() string {
	return fmt.Sprintf("event %d %s: %v", e.Index, e.Event, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EventError) Unwrap() error {
	return e.Err
}
