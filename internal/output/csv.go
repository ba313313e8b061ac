/*
PURPOSE:
  Optional CSV export of the raw per-request results.
  Spreadsheet-friendly companion to the JSON report.

REQUIREMENTS:
  User-specified:
  - One row per Result, same data as the report's rawData.

  Implementation-discovered:
  - Flush after every write (crash resilience during long runs).

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.Result

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Use Mutex; the writer may be shared if exports ever become incremental.

USAGE:
  err := output.WriteResultsCSV("results/raw.csv", results)

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion together.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when Result struct changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/quillreader/streambench/internal/model"
)

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter, overwriting any existing file and
// creating parent directories as needed.
func NewCSVWriter(path string) (*CSVWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	header := []string{
		"request_id", "scenario", "start_time", "end_time",
		"ttft_ms", "latency_ms",
		"input_tokens", "output_tokens", "total_tokens",
		"cost_usd", "success", "error",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single result row. It is thread-safe.
func (cw *CSVWriter) Write(r model.Result) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	ttft := ""
	if r.TTFTMs != nil {
		ttft = fmt.Sprintf("%.2f", *r.TTFTMs)
	}

	record := []string{
		r.RequestID,
		r.Scenario,
		r.StartTime.Format(time.RFC3339),
		r.EndTime.Format(time.RFC3339),
		ttft,
		fmt.Sprintf("%.2f", r.LatencyMs),
		fmt.Sprintf("%d", r.InputTokens),
		fmt.Sprintf("%d", r.OutputTokens),
		fmt.Sprintf("%d", r.TotalTokens),
		fmt.Sprintf("%.6f", r.CostUSD),
		fmt.Sprintf("%t", r.Success),
		r.Error,
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

// WriteResultsCSV writes the full result collection to a CSV file.
func WriteResultsCSV(path string, results []model.Result) error {
	w, err := NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, r := range results {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
