/*
PURPOSE:
  Static per-model pricing table and cost computation.
  Cost is derived data, not a live lookup.

REQUIREMENTS:
  User-specified:
  - At minimum a low-cost and a high-cost tier with distinct input/output
    per-1000-token rates.
  - Default to the low-cost tier unless told otherwise.

  Implementation-discovered:
  - Unknown model names fall back to the default tier rather than erroring;
    the runner must never fail a request over a pricing miss.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (per-request cost), internal/cli (metadata).

ERROR HANDLING:
  - None. Table lookups fall back, never fail.

IMPLEMENTATION RULES:
  - Immutable mapping; extend by adding entries, not control flow.

USAGE:
  cost := pricing.Cost("gpt-3.5-turbo", 1000, 500)

SELF-HEALING INSTRUCTIONS:
  - If a provider changes rates, update the table values only.

RELATED FILES:
  - internal/engine/client.go

MAINTENANCE:
  - Update table when new models are benchmarked.
*/

package pricing

// DefaultModel is the low-cost tier used when no model is configured.
const DefaultModel = "gpt-3.5-turbo"

// Rates holds USD per 1000 tokens.
type Rates struct {
	InputPer1K  float64
	OutputPer1K float64
}

var table = map[string]Rates{
	"gpt-3.5-turbo": {InputPer1K: 0.0005, OutputPer1K: 0.0015},
	"gpt-4":         {InputPer1K: 0.03, OutputPer1K: 0.06},
}

// RatesFor returns the rate pair for a model, falling back to the
// default tier for unknown names.
func RatesFor(model string) Rates {
	if r, ok := table[model]; ok {
		return r
	}
	return table[DefaultModel]
}

// Cost computes the USD cost of a request given its token counts.
func Cost(model string, inputTokens, outputTokens int) float64 {
	r := RatesFor(model)
	return float64(inputTokens)/1000*r.InputPer1K + float64(outputTokens)/1000*r.OutputPer1K
}

// Models lists the known pricing tiers.
func Models() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
