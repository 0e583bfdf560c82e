// Package history persists run records and per-item outcomes so past
// runs survive the next run's destructive directory clean.
package history

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/fetcharr/internal/fetch"
	"github.com/vmunix/fetcharr/internal/report"
	"github.com/vmunix/fetcharr/pkg/asset"
)

//go:embed sql/001_initial.sql
var initialSQL string

// ErrNotFound is returned when a run record does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded pipeline execution.
type Run struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  *time.Time
	Processed   int
	Succeeded   int
	Failed      int
	TotalBytes  int64
	ArchivePath string
}

// Outcome is one persisted fetch result.
type Outcome struct {
	ID        int64
	RunID     int64
	URL       string
	Filename  string
	Category  asset.Category
	Success   bool
	Bytes     int64
	ElapsedMS int64
	Error     string
}

// Store persists runs and outcomes.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database, applying the schema.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(initialSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	s, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, db, nil
}

// Begin records the start of a run and returns its ID.
func (s *Store) Begin(startedAt time.Time) (int64, error) {
	result, err := s.db.Exec(`INSERT INTO runs (started_at) VALUES (?)`, startedAt)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// RecordOutcome persists one fetch outcome under a run.
func (s *Store) RecordOutcome(runID int64, o fetch.Outcome) error {
	_, err := s.db.Exec(`
		INSERT INTO outcomes (run_id, url, filename, category, success, bytes, elapsed_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Ref.URL, o.Ref.Filename, string(o.Ref.Category), o.Success, o.Bytes,
		o.Elapsed.Milliseconds(), o.Error,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// Finish closes out a run with its summary totals and optional archive
// path. Returns ErrNotFound if the run does not exist.
func (s *Store) Finish(runID int64, summary report.Summary, archivePath string, finishedAt time.Time) error {
	result, err := s.db.Exec(`
		UPDATE runs SET finished_at = ?, processed = ?, succeeded = ?, failed = ?, total_bytes = ?, archive_path = ?
		WHERE id = ?`,
		finishedAt, summary.Processed, summary.Succeeded(), len(summary.Failures),
		summary.TotalBytes, archivePath, runID,
	)
	if err != nil {
		return fmt.Errorf("update run %d: %w", runID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("finish run %d: %w", runID, ErrNotFound)
	}
	return nil
}

// Get retrieves a run by ID. Returns ErrNotFound if absent.
func (s *Store) Get(id int64) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRow(`
		SELECT id, started_at, finished_at, processed, succeeded, failed, total_bytes, archive_path
		FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Processed, &r.Succeeded, &r.Failed, &r.TotalBytes, &r.ArchivePath)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, processed, succeeded, failed, total_bytes, archive_path
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Processed, &r.Succeeded, &r.Failed, &r.TotalBytes, &r.ArchivePath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return results, nil
}

// Outcomes returns a run's outcomes in processing order.
func (s *Store) Outcomes(runID int64) ([]*Outcome, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, url, filename, category, success, bytes, elapsed_ms, error
		FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Outcome
	for rows.Next() {
		o := &Outcome{}
		var category string
		if err := rows.Scan(&o.ID, &o.RunID, &o.URL, &o.Filename, &category, &o.Success, &o.Bytes, &o.ElapsedMS, &o.Error); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Category = asset.Category(category)
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return results, nil
}
