/*
PURPOSE:
  Persists the aggregate report as the durable JSON artifact consumed by
  comparison and baseline tooling, and reads it back for diffing.

REQUIREMENTS:
  User-specified:
  - Single JSON file at the configured output path.
  - Parent directories created as needed.

  Implementation-discovered:
  - Indented output: the artifact is diffed and eyeballed by humans as
    well as scripts.
  - Write-then-read must round-trip field-for-field.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.Report

ERROR HANDLING:
  - Returns error on directory creation, marshalling, or write failure.
    The caller treats this as fatal (the artifact IS the run's product).

IMPLEMENTATION RULES:
  - Use encoding/json.MarshalIndent.

USAGE:
  err := output.WriteReport("results/performance.json", report)

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update if the artifact layout changes (coordinate with comparison
    scripts first).
*/

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quillreader/streambench/internal/model"
)

// WriteReport persists the report to path, creating parent directories
// as needed.
func WriteReport(path string, report *model.Report) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a previously written report artifact.
func ReadReport(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &report, nil
}
