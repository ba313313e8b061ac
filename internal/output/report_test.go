package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillreader/streambench/internal/model"
)

func sampleReport() *model.Report {
	ttft := 123.45
	return &model.Report{
		Endpoint:   "ai/stream",
		Timestamp:  time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		Samples:    2,
		Concurrent: 1,
		Metadata: model.Metadata{
			Model:           "gpt-3.5-turbo",
			InputRatePer1K:  0.0005,
			OutputRatePer1K: 0.0015,
			ScenarioSource:  "builtin",
			Version:         "0.3.0",
		},
		Metrics: model.Metrics{
			TotalRequests: 2,
			Successful:    1,
			Failed:        1,
			SuccessRate:   50,
			LatencyMs:     model.Stats{Mean: 450.12, Median: 450.12, P50: 450.12, P95: 450.12, P99: 450.12, Min: 450.12, Max: 450.12},
			TotalCostUSD:  0.00125,
		},
		RawData: []model.Result{
			{
				RequestID:    "req-1",
				Scenario:     "chat-question",
				StartTime:    time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
				EndTime:      time.Date(2026, 8, 25, 10, 30, 1, 0, time.UTC),
				TTFTMs:       &ttft,
				LatencyMs:    450.12,
				InputTokens:  1000,
				OutputTokens: 500,
				TotalTokens:  1500,
				CostUSD:      0.00125,
				Success:      true,
				Content:      "Hello world",
				Sources:      json.RawMessage(`[{"title":"Chapter 1"}]`),
				Usage:        json.RawMessage(`{"prompt_tokens":1000,"completion_tokens":500,"total_tokens":1500}`),
			},
			{
				RequestID: "req-2",
				Scenario:  "chat-question",
				StartTime: time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 8, 25, 10, 30, 2, 0, time.UTC),
				LatencyMs: 2000,
				Success:   false,
				Error:     "request timed out after 2s",
			},
		},
	}
}

func TestWriteReport_RoundTrip(t *testing.T) {
	// Nested path: parent directories must be created.
	path := filepath.Join(t.TempDir(), "results", "nested", "performance.json")
	report := sampleReport()

	require.NoError(t, WriteReport(path, report))

	loaded, err := ReadReport(path)
	require.NoError(t, err)

	// Field-for-field identical persistence.
	want, err := json.Marshal(report)
	require.NoError(t, err)
	got, err := json.Marshal(loaded)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))
}

func TestWriteReport_OmitsAbsentOptionals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "performance.json")
	require.NoError(t, WriteReport(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	raw := generic["rawData"].([]any)
	failed := raw[1].(map[string]any)
	require.NotContains(t, failed, "ttft_ms")
	require.NotContains(t, failed, "content")
	require.Contains(t, failed, "error")
}

func TestWriteReport_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	// A file where a directory is needed.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := WriteReport(filepath.Join(blocker, "sub", "report.json"), sampleReport())
	require.Error(t, err)
}

func TestReadReport_Missing(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestWriteResultsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "results.csv")
	require.NoError(t, WriteResultsCSV(path, sampleReport().RawData))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	require.Contains(t, content, "request_id,scenario")
	require.Contains(t, content, "req-1")
	require.Contains(t, content, "request timed out after 2s")
}
