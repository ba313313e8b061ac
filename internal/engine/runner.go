/*
PURPOSE:
  High-level runner that orchestrates a measurement run.
  Issues sampled scenario requests in sequential batches, aggregates the
  results, and persists the report artifact.

REQUIREMENTS:
  User-specified:
  - Sequential batches of up to `concurrent` parallel requests, awaited
    together; a short fixed pause between batches.
  - Statistics from successful results only; throughput from all attempts
    over the run's wall-clock duration.
  - Always persist the report; individual failures never abort the run.

  Implementation-discovered:
  - Results are appended in completion order, not issuance order.
  - Token/cost means divide by max(1, successfulCount) so an all-failure
    run still reports instead of dividing by zero.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/scenario, internal/stats, internal/pricing, internal/output

ERROR HANDLING:
  - Fatal only on invalid configuration, unreadable scenario file, or an
    unwritable output path. Everything else is recorded as data.

IMPLEMENTATION RULES:
  - Fan out within a batch via errgroup; the mutex guards only the
    append, which is the sole shared mutable state of a run.
  - The next batch must not start until every member of the previous batch
    has settled.

USAGE:
  r, err := engine.NewRunner(cfg)
  report, err := r.Run(ctx)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/client.go

MAINTENANCE:
  - Update iteration logic if a saturated worker pool is ever wanted
    (deliberately not today: batches give a reproducible load shape).
*/

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quillreader/streambench/internal/config"
	"github.com/quillreader/streambench/internal/model"
	"github.com/quillreader/streambench/internal/output"
	"github.com/quillreader/streambench/internal/pricing"
	"github.com/quillreader/streambench/internal/scenario"
	"github.com/quillreader/streambench/internal/stats"
)

// Runner executes a full measurement run.
type Runner struct {
	cfg       *config.Config
	scenarios []model.Scenario
	source    string
	picker    *scenario.Picker
	client    *Client

	mu      sync.Mutex
	results []model.Result
}

// NewRunner validates the configuration and resolves the scenario set.
func NewRunner(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	scenarios := scenario.Defaults()
	source := "builtin"
	if cfg.ScenarioFile != "" {
		loaded, err := scenario.Load(cfg.ScenarioFile)
		if err != nil {
			return nil, err
		}
		scenarios = loaded
		source = cfg.ScenarioFile
	}

	picker, err := scenario.NewPicker(scenarios)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:       cfg,
		scenarios: scenarios,
		source:    source,
		picker:    picker,
		client:    NewClient(cfg),
	}, nil
}

// Run executes the batch sequence, aggregates metrics, and writes the
// report artifact. Individual request failures are captured in the report;
// only configuration and persistence problems surface as errors.
func (r *Runner) Run(ctx context.Context) (*model.Report, error) {
	cfg := r.cfg
	batches := (cfg.Samples + cfg.Concurrent - 1) / cfg.Concurrent

	output.Logger.Info("Starting run",
		"endpoint", cfg.Endpoint,
		"samples", cfg.Samples,
		"concurrent", cfg.Concurrent,
		"batches", batches,
		"scenarios", len(r.scenarios),
	)

	start := time.Now()
	issued := 0
	for batch := 1; issued < cfg.Samples; batch++ {
		size := cfg.Concurrent
		if remaining := cfg.Samples - issued; remaining < size {
			size = remaining
		}
		output.Logger.Info("Dispatching batch", "batch", batch, "of", batches, "size", size)

		var g errgroup.Group
		for i := 0; i < size; i++ {
			sc := r.picker.Pick()
			g.Go(func() error {
				res := r.client.Execute(ctx, sc)
				r.mu.Lock()
				r.results = append(r.results, res)
				r.mu.Unlock()
				return nil
			})
		}
		// Execute never returns an error; Wait is the batch barrier.
		_ = g.Wait()
		issued += size

		if issued < cfg.Samples {
			time.Sleep(cfg.BatchPause.Duration())
		}
	}
	wall := time.Since(start)

	metrics := r.aggregate(wall)
	rates := pricing.RatesFor(cfg.Model)
	report := &model.Report{
		Endpoint:   cfg.Endpoint,
		Timestamp:  start,
		Samples:    cfg.Samples,
		Concurrent: cfg.Concurrent,
		Metadata: model.Metadata{
			Model:           cfg.Model,
			InputRatePer1K:  rates.InputPer1K,
			OutputRatePer1K: rates.OutputPer1K,
			ScenarioSource:  r.source,
			Version:         config.Version,
		},
		Metrics: metrics,
		RawData: r.results,
	}

	if err := output.WriteReport(cfg.Output, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}
	output.Logger.Info("Report written", "path", cfg.Output)

	if cfg.CSVOutput != "" {
		if err := output.WriteResultsCSV(cfg.CSVOutput, r.results); err != nil {
			return nil, fmt.Errorf("failed to write CSV export: %w", err)
		}
		output.Logger.Info("CSV export written", "path", cfg.CSVOutput)
	}

	output.Logger.Info("Run complete",
		"successful", metrics.Successful,
		"failed", metrics.Failed,
		"mean_latency_ms", metrics.LatencyMs.Mean,
		"total_cost_usd", metrics.TotalCostUSD,
		"duration_s", metrics.DurationSec,
	)
	return report, nil
}

// aggregate computes the report metrics from the settled result collection.
func (r *Runner) aggregate(wall time.Duration) model.Metrics {
	var (
		latencies    []float64
		ttfts        []float64
		outputTokens []float64
		totalTokens  []float64
		costs        []float64
	)
	successful := 0
	inputSum, outputSum, tokenSum := 0, 0, 0
	totalCost := 0.0

	for _, res := range r.results {
		tokenSum += res.TotalTokens
		if !res.Success {
			continue
		}
		successful++
		latencies = append(latencies, res.LatencyMs)
		if res.TTFTMs != nil {
			ttfts = append(ttfts, *res.TTFTMs)
		}
		outputTokens = append(outputTokens, float64(res.OutputTokens))
		totalTokens = append(totalTokens, float64(res.TotalTokens))
		costs = append(costs, res.CostUSD)
		inputSum += res.InputTokens
		outputSum += res.OutputTokens
		totalCost += res.CostUSD
	}

	total := len(r.results)
	failed := total - successful
	// Guard against an all-failure run.
	denom := float64(max(1, successful))

	wallSec := wall.Seconds()
	reqPerSec := 0.0
	tokPerSec := 0.0
	if wallSec > 0 {
		reqPerSec = float64(total) / wallSec
		tokPerSec = float64(tokenSum) / wallSec
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(successful) / float64(total) * 100
	}

	return model.Metrics{
		TotalRequests:   total,
		Successful:      successful,
		Failed:          failed,
		SuccessRate:     stats.Round2(successRate),
		LatencyMs:       stats.Summarize(latencies),
		TTFTMs:          stats.Summarize(ttfts),
		OutputTokens:    stats.Summarize(outputTokens),
		TotalTokens:     stats.Summarize(totalTokens),
		CostUSD:         stats.Summarize(costs),
		AvgInputTokens:  stats.Round2(float64(inputSum) / denom),
		AvgOutputTokens: stats.Round2(float64(outputSum) / denom),
		TotalCostUSD:    totalCost,
		RequestsPerSec:  stats.Round2(reqPerSec),
		TokensPerSec:    stats.Round2(tokPerSec),
		DurationSec:     stats.Round2(wallSec),
	}
}
