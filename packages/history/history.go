package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/cicheck/cicheck/packages/core/runner"
)

const openTimeout = 5 * time.Second

// Run is a stored run summary.
type Run struct {
	ID        string
	Ruleset   string
	StartedAt time.Time
	Duration  time.Duration
	Passed    int
	Failed    int
	Errored   int
}

// CheckRecord is a stored per-check outcome.
type CheckRecord struct {
	RunID   string
	Target  string
	Name    string
	Outcome string
	Message string
}

// Store persists run history in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	ruleset     TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	errored     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	target  TEXT NOT NULL,
	name    TEXT NOT NULL,
	outcome TEXT NOT NULL,
	message TEXT
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating history schema: %w", err)
	}
	return nil
}

// Record stores a run result and its per-check outcomes, returning the
// generated run ID.
func (s *Store) Record(ctx context.Context, result *runner.RunResult, startedAt time.Time) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, ruleset, started_at, duration_ms, passed, failed, errored) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, result.Ruleset, startedAt.UTC(), result.Duration.Milliseconds(),
		result.Passed, result.Failed, result.Errored)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}

	for _, tr := range result.Targets {
		for _, res := range tr.Results {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO results (run_id, target, name, outcome, message) VALUES (?, ?, ?, ?, ?)`,
				id, tr.File, res.Name, string(res.Outcome), res.Message)
			if err != nil {
				return "", fmt.Errorf("recording check result: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing history transaction: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ruleset, started_at, duration_ms, passed, failed, errored
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.Ruleset, &r.StartedAt, &durationMs, &r.Passed, &r.Failed, &r.Errored); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Results returns the stored per-check outcomes for a run in insertion order.
func (s *Store) Results(ctx context.Context, runID string) ([]*CheckRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, target, name, outcome, message FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var records []*CheckRecord
	for rows.Next() {
		var rec CheckRecord
		if err := rows.Scan(&rec.RunID, &rec.Target, &rec.Name, &rec.Outcome, &rec.Message); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return records, nil
}
