// Package diagnostics persists overlap diagnostics produced by flood runs.
package diagnostics

import (
	"encoding/json"
	"errors"
	"time"
)

// Store persists diagnostics, grouped by flood run.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save appends a record to its run. The store assigns Sequence.
	Save(rec Record) error

	// List returns all records for a run, ordered by sequence.
	// Returns an empty slice (not an error) if the run has none.
	List(runID string) ([]Record, error)

	// Count returns the number of records stored for a run.
	Count(runID string) (int, error)

	// DeleteRun removes all records for a run.
	// Returns nil if the run has no records.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Record is the stored form of one overlap diagnostic.
// Payloads are kept as JSON so the store is independent of the payload type.
type Record struct {
	RunID    string `json:"run_id"`
	Sequence int    `json:"sequence"`

	FirstStart    time.Time       `json:"first_start"`
	FirstDuration time.Duration   `json:"first_duration"`
	FirstData     json.RawMessage `json:"first_data"`

	SecondStart    time.Time       `json:"second_start"`
	SecondDuration time.Duration   `json:"second_duration"`
	SecondData     json.RawMessage `json:"second_data"`

	Overlap    time.Duration `json:"overlap"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Sentinel errors for store operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("diagnostics store closed")

	// ErrRunIDRequired indicates a record without a run ID.
	ErrRunIDRequired = errors.New("run ID required")
)
