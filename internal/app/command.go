// Package app orchestrates one plugin invocation: ledger, event stream,
// file discovery, the worker pool, and the run summary.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"coneme/internal/config"
	"coneme/internal/connectome"
	"coneme/internal/engine"
	"coneme/internal/eventlog"
	"coneme/internal/mapper"
	"coneme/internal/store"
)

// Command holds everything one invocation needs.
type Command struct {
	InputDir  string
	OutputDir string
	DBPath    string
	Options   config.Config
	Log       zerolog.Logger
}

// Result is what the CLI reports after a run.
type Result struct {
	RunID   string
	Status  string
	Summary engine.Summary
}

// Run executes the batch: validates the directories, discovers input files,
// fans them out to workers, and finalizes the ledger. Per-file failures mark
// the run failed but leave successful outputs in place.
func (c Command) Run(ctx context.Context) (Result, error) {
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return Result{}, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("input directory: %s is not a directory", c.InputDir)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("output directory: %w", err)
	}

	runID := ulid.Make().String()
	logger, err := eventlog.New(filepath.Join(c.OutputDir, "events.jsonl"))
	if err != nil {
		return Result{}, err
	}
	defer logger.Close()

	dbPath := c.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(c.OutputDir, "coneme.db")
	}
	storeDB, err := store.NewSQLite(dbPath)
	if err != nil {
		return Result{}, err
	}
	defer storeDB.Close()

	if err := storeDB.Init(ctx); err != nil {
		return Result{}, err
	}

	configJSON, err := json.Marshal(c.Options)
	if err != nil {
		return Result{}, fmt.Errorf("marshal config: %w", err)
	}

	run := store.RunRecord{
		RunID:     runID,
		InputDir:  c.InputDir,
		OutputDir: c.OutputDir,
		StartedAt: time.Now(),
		Status:    store.RunStatusRunning,
		Config:    string(configJSON),
	}
	if err := storeDB.CreateRun(ctx, run); err != nil {
		return Result{}, err
	}
	if err := logger.Emit(eventlog.Event{
		RunID:     runID,
		Level:     "info",
		EventType: "run_started",
		Payload: map[string]string{
			"input_dir":  c.InputDir,
			"output_dir": c.OutputDir,
		},
	}); err != nil {
		return Result{}, err
	}

	pairs, err := mapper.New(c.InputDir, c.OutputDir, c.Options.Pattern, ".json").Pairs()
	if err != nil {
		return finalize(storeDB, logger, runID, engine.Summary{}, err)
	}
	c.Log.Info().Int("files", len(pairs)).Str("run_id", runID).Msg("discovered input files")

	// The parameter file only matters when there is something to analyze;
	// an empty input set stays a clean no-op without one.
	var params connectome.Params
	if len(pairs) > 0 {
		params, err = connectome.ReadParams(filepath.Join(c.InputDir, c.Options.MeasurementFile))
		if err != nil {
			return finalize(storeDB, logger, runID, engine.Summary{}, err)
		}
	}

	processor := engine.Processor{
		Store:  storeDB,
		Events: logger,
		Log:    c.Log,
		RunID:  runID,
		Params: params,
		Config: c.Options,
	}
	summary, err := processor.Run(ctx, pairs)
	if err != nil {
		return finalize(storeDB, logger, runID, summary, err)
	}
	if summary.Failed > 0 {
		return finalize(storeDB, logger, runID, summary,
			fmt.Errorf("%d of %d files failed", summary.Failed, len(pairs)))
	}

	if err := storeDB.UpdateRunStatus(ctx, runID, store.RunStatusSucceeded, summary.String()); err != nil {
		return Result{}, err
	}

	report, err := buildRunReport(ctx, storeDB, runID, c.Options)
	if err != nil {
		return Result{}, err
	}
	if err := writeJSON(filepath.Join(c.OutputDir, "summary.json"), report); err != nil {
		return Result{}, err
	}

	if err := logger.Emit(eventlog.Event{
		RunID:     runID,
		Level:     "info",
		EventType: "run_finished",
		Payload: map[string]string{
			"status": store.RunStatusSucceeded,
		},
	}); err != nil {
		return Result{}, err
	}

	return Result{
		RunID:   runID,
		Status:  store.RunStatusSucceeded,
		Summary: summary,
	}, nil
}

func finalize(storeDB *store.SQLiteStore, logger *eventlog.EventLog, runID string, summary engine.Summary, runErr error) (Result, error) {
	if updateErr := storeDB.UpdateRunStatus(context.Background(), runID, store.RunStatusFailed, summary.String()); updateErr != nil {
		return Result{}, updateErr
	}
	if logger != nil {
		_ = logger.Emit(eventlog.Event{
			RunID:     runID,
			Level:     "error",
			EventType: "run_failed",
			Payload: map[string]string{
				"error": runErr.Error(),
			},
		})
	}

	return Result{}, runErr
}

type runReport struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	Subject   string `json:"subject,omitempty"`
	Atlas     string `json:"atlas,omitempty"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	StartedAt string `json:"started_at"`
	Finished  string `json:"finished_at"`
}

func buildRunReport(ctx context.Context, storeDB *store.SQLiteStore, runID string, opts config.Config) (runReport, error) {
	runSummary, err := storeDB.GetRunSummary(ctx, runID)
	if err != nil {
		return runReport{}, err
	}
	finished := ""
	if !runSummary.Finished.IsZero() {
		finished = runSummary.Finished.UTC().Format(time.RFC3339)
	}
	return runReport{
		RunID:     runSummary.RunID,
		Status:    runSummary.Status,
		Subject:   opts.Subject,
		Atlas:     opts.Atlas,
		Processed: runSummary.Processed,
		Skipped:   runSummary.Skipped,
		Failed:    runSummary.Failed,
		StartedAt: runSummary.Started.UTC().Format(time.RFC3339),
		Finished:  finished,
	}, nil
}

func writeJSON(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
