/*
PURPOSE:
  Defines the core data structures used throughout streambench.
  These models represent scenarios, per-request results, and the
  aggregate performance report.

REQUIREMENTS:
  User-specified:
  - Record latency, time-to-first-token, token counts, and cost per request.
  - Persist the full raw result list so downstream tooling can diff runs.

  Implementation-discovered:
  - Need JSON tags matching the report artifact consumed by comparison scripts.
  - TTFT is optional (a failed request never streams a token), so a pointer
    distinguishes "absent" from "zero".

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/stats, internal/output, internal/scenario
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Durations stored as float64 milliseconds for report compatibility.

USAGE:
  res := model.Result{...}

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add field and update the runner's aggregation.

RELATED FILES:
  - internal/engine/runner.go
  - internal/output/report.go

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

import (
	"encoding/json"
	"time"
)

// Scenario is a named, weighted template for one test request's payload.
// Optional fields are omitted from the request body when empty.
type Scenario struct {
	Name        string  `json:"name"`
	BookID      string  `json:"bookId"`
	Intent      string  `json:"intent,omitempty"`
	Query       string  `json:"query,omitempty"`
	Selection   string  `json:"selection,omitempty"`
	TargetLang  string  `json:"targetLang,omitempty"`
	EnhanceType string  `json:"enhanceType,omitempty"`
	Weight      float64 `json:"weight"`
}

// Result is the outcome of a single attempted request. It is created once
// when the request settles and never mutated afterwards.
type Result struct {
	RequestID    string          `json:"request_id"`
	Scenario     string          `json:"scenario"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	TTFTMs       *float64        `json:"ttft_ms,omitempty"`
	LatencyMs    float64         `json:"latency_ms"`
	InputTokens  int             `json:"input_tokens"`
	OutputTokens int             `json:"output_tokens"`
	TotalTokens  int             `json:"total_tokens"`
	CostUSD      float64         `json:"cost_usd"`
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	Content      string          `json:"content,omitempty"`
	Sources      json.RawMessage `json:"sources,omitempty"`
	Usage        json.RawMessage `json:"usage,omitempty"`
}

// Stats is the summary of one numeric sample set. All values are rounded
// to 2 decimal places; an empty sample set yields the zero value.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Metrics is the aggregate computed once from the full Result collection.
// Latency/token/cost statistics cover successful requests only; throughput
// counts every attempt against the wall-clock duration of the run.
type Metrics struct {
	TotalRequests   int     `json:"total_requests"`
	Successful      int     `json:"successful"`
	Failed          int     `json:"failed"`
	SuccessRate     float64 `json:"success_rate"`
	LatencyMs       Stats   `json:"latency_ms"`
	TTFTMs          Stats   `json:"ttft_ms"`
	OutputTokens    Stats   `json:"output_tokens"`
	TotalTokens     Stats   `json:"total_tokens"`
	CostUSD         Stats   `json:"cost_usd"`
	AvgInputTokens  float64 `json:"avg_input_tokens"`
	AvgOutputTokens float64 `json:"avg_output_tokens"`
	TotalCostUSD    float64 `json:"total_cost_usd"`
	RequestsPerSec  float64 `json:"requests_per_sec"`
	TokensPerSec    float64 `json:"tokens_per_sec"`
	DurationSec     float64 `json:"duration_sec"`
}

// Metadata records the run configuration baked into the report artifact.
type Metadata struct {
	Model           string  `json:"model"`
	InputRatePer1K  float64 `json:"input_rate_per_1k"`
	OutputRatePer1K float64 `json:"output_rate_per_1k"`
	ScenarioSource  string  `json:"scenario_source"`
	Version         string  `json:"version"`
}

// Report is the durable JSON artifact consumed by comparison tooling.
// RawData preserves the full ordered result list (completion order).
type Report struct {
	Endpoint   string    `json:"endpoint"`
	Timestamp  time.Time `json:"timestamp"`
	Samples    int       `json:"samples"`
	Concurrent int       `json:"concurrent"`
	Metadata   Metadata  `json:"metadata"`
	Metrics    Metrics   `json:"metrics"`
	RawData    []Result  `json:"rawData"`
}
