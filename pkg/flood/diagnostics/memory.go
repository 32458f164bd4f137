package diagnostics

import (
	"bytes"
	"sync"
	"time"
)

// MemoryStore is an in-memory diagnostics store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string][]Record
	closed bool
}

// NewMemoryStore creates a new in-memory diagnostics store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string][]Record)}
}

// Save implements Store.
func (m *MemoryStore) Save(rec Record) error {
	if rec.RunID == "" {
		return ErrRunIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	rec.Sequence = len(m.runs[rec.RunID]) + 1
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	// Copy payloads to avoid retaining the caller's slices.
	rec.FirstData = bytes.Clone(rec.FirstData)
	rec.SecondData = bytes.Clone(rec.SecondData)

	m.runs[rec.RunID] = append(m.runs[rec.RunID], rec)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored := m.runs[runID]
	out := make([]Record, len(stored))
	copy(out, stored)
	return out, nil
}

// Count implements Store.
func (m *MemoryStore) Count(runID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	return len(m.runs[runID]), nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.runs, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	return nil
}
