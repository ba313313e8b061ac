/*
PURPOSE:
  Scenario set management: the built-in default scenarios, JSON scenario-file
  loading, and the weighted random picker that drives request sampling.

REQUIREMENTS:
  User-specified:
  - Scenarios carry a relative weight; selection is proportional to weight.
  - Scenario files are a JSON array; malformed files are a fatal error.
  - At least one scenario must exist and the weight sum must be > 0.

  Implementation-discovered:
  - Zero-weight scenarios are legal (effectively unreachable), only a zero
    TOTAL is fatal.
  - The cumulative walk can miss on floating-point rounding at the top of
    the range; the picker falls back to the first scenario so a draw can
    never produce "no selection".

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (per-draw), internal/cli (list-scenarios)
  - Consumes: internal/model.Scenario

ERROR HANDLING:
  - Load returns explicit errors (unreadable file, bad JSON, empty set,
    zero total weight). Pick never fails.

IMPLEMENTATION RULES:
  - Scenarios are immutable once loaded.
  - Picker owns its rand source; callers never touch global rand.

USAGE:
  p, err := scenario.NewPicker(scenario.Defaults())
  sc := p.Pick()

SELF-HEALING INSTRUCTIONS:
  - If the target API grows new intents, extend Defaults().

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Keep default weights roughly matching observed production traffic mix.
*/

package scenario

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/quillreader/streambench/internal/model"
)

// Defaults returns the built-in scenario set, weighted to approximate the
// production traffic mix of the reader AI endpoint.
func Defaults() []model.Scenario {
	return []model.Scenario{
		{
			Name:   "chat-question",
			BookID: "bench-book-1",
			Intent: "chat",
			Query:  "What is the central argument of this chapter?",
			Weight: 0.4,
		},
		{
			Name:      "explain-selection",
			BookID:    "bench-book-1",
			Intent:    "explain",
			Selection: "The narrator's unreliability is established through contradictory recollections of the same evening.",
			Weight:    0.25,
		},
		{
			Name:       "translate-selection",
			BookID:     "bench-book-1",
			Intent:     "translate",
			Selection:  "It was the best of times, it was the worst of times.",
			TargetLang: "es",
			Weight:     0.2,
		},
		{
			Name:        "enhance-summary",
			BookID:      "bench-book-1",
			Intent:      "enhance",
			Selection:   "The committee reviewed the proposal over three sessions before reaching a unanimous decision.",
			EnhanceType: "summary",
			Weight:      0.15,
		},
	}
}

// Load reads a scenario set from a JSON file (an array of Scenario records).
func Load(path string) ([]model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var scenarios []model.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}

	if err := validate(scenarios); err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return scenarios, nil
}

func validate(scenarios []model.Scenario) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	total := 0.0
	for _, sc := range scenarios {
		if sc.Weight < 0 {
			return fmt.Errorf("scenario %q has negative weight %v", sc.Name, sc.Weight)
		}
		total += sc.Weight
	}
	if total <= 0 {
		return fmt.Errorf("total scenario weight must be > 0")
	}
	return nil
}

// TotalWeight returns the sum of all scenario weights.
func TotalWeight(scenarios []model.Scenario) float64 {
	total := 0.0
	for _, sc := range scenarios {
		total += sc.Weight
	}
	return total
}

// Picker selects scenarios proportionally to their weights.
type Picker struct {
	scenarios []model.Scenario
	total     float64
	rng       *rand.Rand
}

// NewPicker validates the scenario set and returns a picker seeded from
// the wall clock.
func NewPicker(scenarios []model.Scenario) (*Picker, error) {
	return NewSeededPicker(scenarios, time.Now().UnixNano())
}

// NewSeededPicker is NewPicker with a caller-supplied seed, for
// reproducible runs and tests.
func NewSeededPicker(scenarios []model.Scenario, seed int64) (*Picker, error) {
	if err := validate(scenarios); err != nil {
		return nil, err
	}
	return &Picker{
		scenarios: scenarios,
		total:     TotalWeight(scenarios),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// Pick draws one scenario. It walks the list accumulating weight until the
// running sum meets the uniform draw in [0, total). Falls back to the first
// scenario if rounding leaves the draw unmatched.
func (p *Picker) Pick() model.Scenario {
	draw := p.rng.Float64() * p.total
	acc := 0.0
	for _, sc := range p.scenarios {
		acc += sc.Weight
		if draw <= acc {
			return sc
		}
	}
	return p.scenarios[0]
}
