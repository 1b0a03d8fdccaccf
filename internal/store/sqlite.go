package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("id prefix matches more than one run")
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    input TEXT NOT NULL,
    metric TEXT NOT NULL,
    alpha REAL NOT NULL,
    selected_test TEXT NOT NULL,
    statistic REAL NOT NULL,
    p_value REAL NOT NULL,
    rejected INTEGER NOT NULL,
    report TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS checks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    stage TEXT NOT NULL,
    subject TEXT NOT NULL,
    name TEXT NOT NULL,
    hypothesis TEXT NOT NULL,
    statistic REAL NOT NULL,
    p_value REAL NOT NULL,
    rejected INTEGER NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_checks_run ON checks(run_id);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts the run and its checks in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, checks []Check) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	created := run.CreatedAt.Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, metric, alpha, selected_test, statistic, p_value, rejected, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.Metric, run.Alpha, run.Selected, run.Statistic, run.PValue, run.Rejected, string(run.Report), created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, c := range checks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO checks (run_id, stage, subject, name, hypothesis, statistic, p_value, rejected, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, c.Stage, c.Subject, c.Name, c.Hypothesis, c.Statistic, c.PValue, c.Rejected, created,
		)
		if err != nil {
			return fmt.Errorf("failed to insert check: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun looks a run up by its full id or a unique id prefix.
func (s *SQLiteStore) GetRun(ctx context.Context, idPrefix string) (*Run, error) {
	if idPrefix == "" {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, metric, alpha, selected_test, statistic, p_value, rejected, report, created_at
		 FROM runs WHERE substr(id, 1, length(?)) = ? LIMIT 2`, idPrefix, idPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(runs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return runs[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

// ListRuns returns every run, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, metric, alpha, selected_test, statistic, p_value, rejected, report, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// First delete related checks
	if _, err := tx.ExecContext(ctx, `DELETE FROM checks WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete checks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// GetChecks returns the checks of one run in insertion order. An empty
// runID returns the checks of every run.
func (s *SQLiteStore) GetChecks(ctx context.Context, runID string) ([]*Check, error) {
	query := `SELECT id, run_id, stage, subject, name, hypothesis, statistic, p_value, rejected, created_at
		 FROM checks`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get checks: %w", err)
	}
	defer rows.Close()

	var checks []*Check
	for rows.Next() {
		var c Check
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.RunID, &c.Stage, &c.Subject, &c.Name, &c.Hypothesis,
			&c.Statistic, &c.PValue, &c.Rejected, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)
		checks = append(checks, &c)
	}

	return checks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var report string
	var createdAt int64

	err := row.Scan(&run.ID, &run.Input, &run.Metric, &run.Alpha, &run.Selected,
		&run.Statistic, &run.PValue, &run.Rejected, &report, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Report = []byte(report)
	run.CreatedAt = time.Unix(createdAt, 0)
	return &run, nil
}
