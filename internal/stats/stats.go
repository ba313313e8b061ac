/*
PURPOSE:
  Percentile and distribution statistics over numeric sample sets.
  The one place in the codebase that knows how p50/p95/p99 are indexed.

REQUIREMENTS:
  User-specified:
  - Mean, median, p50/p95/p99, min, max, population standard deviation.
  - Empty input yields all-zero statistics rather than failing.

  Implementation-discovered:
  - Median uses the element at floor(n/2) of the ascending sort (same index
    convention as p50), NOT an averaged pair. Comparison tooling diffs old
    reports, so the convention must not drift.
  - All outputs rounded to 2 decimal places for reporting.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (aggregation)
  - Consumes: plain []float64, produces model.Stats.

ERROR HANDLING:
  - None. Pure function, no failure modes.

IMPLEMENTATION RULES:
  - Never mutate the caller's slice; sort a copy.
  - Population variance (divide by n), not sample variance.

USAGE:
  s := stats.Summarize(latencies)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update if additional percentiles are reported.
*/

package stats

import (
	"math"
	"sort"

	"github.com/quillreader/streambench/internal/model"
)

// Summarize computes distribution statistics for a sample set.
// The input is not modified. An empty input yields the zero value.
func Summarize(samples []float64) model.Stats {
	if len(samples) == 0 {
		return model.Stats{}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sqSum float64
	for _, v := range sorted {
		d := v - mean
		sqSum += d * d
	}
	stdDev := math.Sqrt(sqSum / float64(n))

	return model.Stats{
		Mean:   Round2(mean),
		Median: Round2(sorted[n/2]),
		P50:    Round2(percentile(sorted, 0.50)),
		P95:    Round2(percentile(sorted, 0.95)),
		P99:    Round2(percentile(sorted, 0.99)),
		Min:    Round2(sorted[0]),
		Max:    Round2(sorted[n-1]),
		StdDev: Round2(stdDev),
	}
}

// percentile returns the element at floor(n*p) of an ascending-sorted slice,
// clamped to the last element.
func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
