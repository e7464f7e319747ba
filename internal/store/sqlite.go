// Package store persists the run ledger: one row per invocation and one row
// per processed input file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

const (
	ResultStatusOK      = "ok"
	ResultStatusSkipped = "skipped"
	ResultStatusFailed  = "failed"
)

// RunRecord is the ledger row for one invocation.
type RunRecord struct {
	RunID     string
	InputDir  string
	OutputDir string
	StartedAt time.Time
	Status    string
	Config    string
}

// ResultRecord is the ledger row for one input file.
type ResultRecord struct {
	ID               int64
	RunID            string
	InputPath        string
	OutputPath       string
	Status           string
	Nodes            int
	Edges            int
	Density          float64
	CharPathLength   float64
	GlobalEfficiency float64
	Transitivity     float64
	DurationMs       int64
	Error            string
	CreatedAt        time.Time
}

// RunSummary aggregates the per-file outcomes of one run.
type RunSummary struct {
	RunID     string
	Status    string
	Processed int
	Skipped   int
	Failed    int
	Started   time.Time
	Finished  time.Time
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	ddl := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			status TEXT NOT NULL,
			config_json TEXT NOT NULL,
			summary_json TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			input_path TEXT NOT NULL,
			output_path TEXT,
			status TEXT NOT NULL,
			nodes INTEGER,
			edges INTEGER,
			density REAL,
			cpl REAL,
			global_eff REAL,
			transitivity REAL,
			duration_ms INTEGER,
			error TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_status ON results(run_id, status);`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, input_dir, output_dir, started_at, status, config_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.InputDir,
		run.OutputDir,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Status,
		run.Config,
	)
	return err
}

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status string, summaryJSON string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, summary_json = ?, finished_at = ?
		WHERE run_id = ?`,
		status,
		summaryJSON,
		time.Now().UTC().Format(time.RFC3339),
		runID,
	)
	return err
}

func (s *SQLiteStore) AddResult(ctx context.Context, result ResultRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (run_id, input_path, output_path, status, nodes, edges, density, cpl, global_eff, transitivity, duration_ms, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.InputPath,
		result.OutputPath,
		result.Status,
		result.Nodes,
		result.Edges,
		result.Density,
		result.CharPathLength,
		result.GlobalEfficiency,
		result.Transitivity,
		result.DurationMs,
		result.Error,
		result.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) ListResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_path, output_path, status, nodes, edges, density, cpl, global_eff, transitivity, duration_ms, error, created_at
		FROM results
		WHERE run_id = ?
		ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var (
			result    ResultRecord
			createdAt string
		)
		if err := rows.Scan(
			&result.ID,
			&result.InputPath,
			&result.OutputPath,
			&result.Status,
			&result.Nodes,
			&result.Edges,
			&result.Density,
			&result.CharPathLength,
			&result.GlobalEfficiency,
			&result.Transitivity,
			&result.DurationMs,
			&result.Error,
			&createdAt,
		); err != nil {
			return nil, err
		}
		result.RunID = runID
		result.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) GetRunSummary(ctx context.Context, runID string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT status, started_at, finished_at
		FROM runs
		WHERE run_id = ?`,
		runID,
	)

	var (
		status     string
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(&status, &startedAt, &finishedAt); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{RunID: runID, Status: status}
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM results
		WHERE run_id = ?
		GROUP BY status`,
		runID,
	)
	if err != nil {
		return RunSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resultStatus string
			count        int
		)
		if err := rows.Scan(&resultStatus, &count); err != nil {
			return RunSummary{}, err
		}
		switch resultStatus {
		case ResultStatusOK:
			summary.Processed = count
		case ResultStatusSkipped:
			summary.Skipped = count
		case ResultStatusFailed:
			summary.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return RunSummary{}, err
	}

	summary.Started, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		summary.Finished, _ = time.Parse(time.RFC3339, finishedAt.String)
	}
	return summary, nil
}
