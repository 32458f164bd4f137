package diagnostics

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists diagnostics to SQLite.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) a diagnostics database.
// The path should be a file path (e.g., "./diagnostics.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database is private to one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS diagnostics (
			run_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			first_start INTEGER NOT NULL,
			first_duration INTEGER NOT NULL,
			first_data BLOB,
			second_start INTEGER NOT NULL,
			second_duration INTEGER NOT NULL,
			second_data BLOB,
			overlap INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (run_id, sequence)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
// Timestamps are stored as Unix nanoseconds so they round-trip exactly.
func (s *SQLiteStore) Save(rec Record) error {
	if rec.RunID == "" {
		return ErrRunIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO diagnostics (
			run_id, sequence,
			first_start, first_duration, first_data,
			second_start, second_duration, second_data,
			overlap, recorded_at
		)
		VALUES (
			?, COALESCE((SELECT MAX(sequence) FROM diagnostics WHERE run_id = ?), 0) + 1,
			?, ?, ?,
			?, ?, ?,
			?, ?
		)
	`,
		rec.RunID, rec.RunID,
		rec.FirstStart.UnixNano(), int64(rec.FirstDuration), []byte(rec.FirstData),
		rec.SecondStart.UnixNano(), int64(rec.SecondDuration), []byte(rec.SecondData),
		int64(rec.Overlap), recordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save diagnostic: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT sequence,
			first_start, first_duration, first_data,
			second_start, second_duration, second_data,
			overlap, recorded_at
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	defer rows.Close()

	recs := []Record{}
	for rows.Next() {
		var (
			rec                       Record
			firstStart, secondStart   int64
			firstDur, secondDur, over int64
			firstData, secondData     []byte
			recordedAt                string
		)
		if err := rows.Scan(&rec.Sequence,
			&firstStart, &firstDur, &firstData,
			&secondStart, &secondDur, &secondData,
			&over, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		rec.RunID = runID
		rec.FirstStart = time.Unix(0, firstStart).UTC()
		rec.FirstDuration = time.Duration(firstDur)
		rec.FirstData = firstData
		rec.SecondStart = time.Unix(0, secondStart).UTC()
		rec.SecondDuration = time.Duration(secondDur)
		rec.SecondData = secondData
		rec.Overlap = time.Duration(over)
		rec.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at for %s/%d: %w", runID, rec.Sequence, err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return recs, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(runID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM diagnostics WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count diagnostics: %w", err)
	}
	return n, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM diagnostics WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete run diagnostics: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
