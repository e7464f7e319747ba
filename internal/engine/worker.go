// Package engine fans input files out to a pool of workers and runs the
// measure battery on each one.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"coneme/internal/config"
	"coneme/internal/connectome"
	"coneme/internal/eventlog"
	"coneme/internal/mapper"
	"coneme/internal/metrics"
	"coneme/internal/store"
)

// standardMeasuresFlag gates the measure battery in the parameter file.
const standardMeasuresFlag = "flag_standard_measures"

// Processor runs the per-file transformation for one invocation.
type Processor struct {
	Store  *store.SQLiteStore
	Events *eventlog.EventLog
	Log    zerolog.Logger
	RunID  string
	Params connectome.Params
	Config config.Config
}

// Summary counts per-file outcomes.
type Summary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (s Summary) String() string {
	out, _ := json.Marshal(s)
	return string(out)
}

// resultDoc is the JSON document written per input file. The measure keys
// are flattened alongside the annotations.
type resultDoc struct {
	Subject string `json:"subject,omitempty"`
	Atlas   string `json:"atlas,omitempty"`
	Source  string `json:"source"`
	*metrics.Measures
}

// Run processes all pairs with Config.Workers parallel workers. Per-file
// failures are recorded and counted but do not cancel the remaining files;
// the returned error is non-nil only when the pool itself breaks down.
func (p *Processor) Run(ctx context.Context, pairs []mapper.Pair) (Summary, error) {
	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	work := make(chan mapper.Pair)

	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		group.Go(func() error {
			for pair := range work {
				status := p.processOne(ctx, pair)
				mu.Lock()
				switch status {
				case store.ResultStatusOK:
					summary.Processed++
				case store.ResultStatusSkipped:
					summary.Skipped++
				default:
					summary.Failed++
				}
				mu.Unlock()
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(work)
		for _, pair := range pairs {
			select {
			case work <- pair:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processOne handles a single input file end to end and returns its result
// status. All failure modes are recorded in the ledger and event stream.
func (p *Processor) processOne(ctx context.Context, pair mapper.Pair) string {
	start := time.Now()
	_ = p.Events.Emit(eventlog.Event{
		RunID:     p.RunID,
		Level:     "info",
		EventType: "file_started",
		File:      pair.Input,
	})

	if !p.Params.Flag(standardMeasuresFlag) {
		p.Log.Warn().Str("file", pair.Input).Msg("standard measures disabled, skipping")
		p.record(ctx, store.ResultRecord{
			RunID:     p.RunID,
			InputPath: pair.Input,
			Status:    store.ResultStatusSkipped,
		}, start)
		_ = p.Events.Emit(eventlog.Event{
			RunID:     p.RunID,
			Level:     "warn",
			EventType: "file_skipped",
			File:      pair.Input,
		})
		return store.ResultStatusSkipped
	}

	result, err := p.analyze(pair)
	if err != nil {
		p.Log.Error().Err(err).Str("file", pair.Input).Msg("analysis failed")
		p.record(ctx, store.ResultRecord{
			RunID:     p.RunID,
			InputPath: pair.Input,
			Status:    store.ResultStatusFailed,
			Error:     err.Error(),
		}, start)
		_ = p.Events.Emit(eventlog.Event{
			RunID:     p.RunID,
			Level:     "error",
			EventType: "file_failed",
			File:      pair.Input,
			Payload:   map[string]string{"error": err.Error()},
		})
		return store.ResultStatusFailed
	}

	p.record(ctx, result, start)
	_ = p.Events.Emit(eventlog.Event{
		RunID:     p.RunID,
		Level:     "info",
		EventType: "file_finished",
		File:      pair.Input,
		Payload:   map[string]string{"output": pair.Output},
	})
	return store.ResultStatusOK
}

// analyze reads the matrix, computes the measures, and writes the output
// JSON next to the mapped path.
func (p *Processor) analyze(pair mapper.Pair) (store.ResultRecord, error) {
	matrix, err := connectome.ReadMatrix(pair.Input)
	if err != nil {
		return store.ResultRecord{}, err
	}
	if p.Config.Nodes > 0 && matrix.Order() != p.Config.Nodes {
		return store.ResultRecord{}, fmt.Errorf("%s: matrix has %d nodes, expected %d", pair.Input, matrix.Order(), p.Config.Nodes)
	}

	p.Log.Info().
		Str("file", pair.Input).
		Int("nodes", matrix.Order()).
		Str("subject", p.Config.Subject).
		Str("atlas", p.Config.Atlas).
		Msg("computing standard measures")

	measures, err := metrics.Compute(matrix)
	if err != nil {
		return store.ResultRecord{}, fmt.Errorf("%s: %w", pair.Input, err)
	}

	doc := resultDoc{
		Subject:  p.Config.Subject,
		Atlas:    p.Config.Atlas,
		Source:   filepath.Base(pair.Input),
		Measures: measures,
	}
	if err := writeJSON(pair.Output, doc); err != nil {
		return store.ResultRecord{}, err
	}

	return store.ResultRecord{
		RunID:            p.RunID,
		InputPath:        pair.Input,
		OutputPath:       pair.Output,
		Status:           store.ResultStatusOK,
		Nodes:            matrix.Order(),
		Edges:            matrix.Edges(),
		Density:          finiteOrZero(float64(measures.Density)),
		CharPathLength:   finiteOrZero(float64(measures.CharPathLength)),
		GlobalEfficiency: finiteOrZero(float64(measures.GlobalEfficiency)),
		Transitivity:     finiteOrZero(float64(measures.Transitivity)),
	}, nil
}

// finiteOrZero keeps ledger columns scannable: degenerate graphs can yield
// NaN path statistics.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (p *Processor) record(ctx context.Context, result store.ResultRecord, start time.Time) {
	result.DurationMs = time.Since(start).Milliseconds()
	result.CreatedAt = time.Now()
	if err := p.Store.AddResult(ctx, result); err != nil {
		p.Log.Error().Err(err).Str("file", result.InputPath).Msg("failed to record result")
	}
}

func writeJSON(path string, payload interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
