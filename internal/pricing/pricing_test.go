package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCost_DefaultTier(t *testing.T) {
	// 1000 input at 0.0005/1K + 500 output at 0.0015/1K
	cost := Cost("gpt-3.5-turbo", 1000, 500)
	require.InDelta(t, 0.00125, cost, 1e-12)
}

func TestCost_HighTier(t *testing.T) {
	cost := Cost("gpt-4", 2000, 1000)
	require.InDelta(t, 0.12, cost, 1e-12)
}

func TestCost_ZeroTokens(t *testing.T) {
	require.Zero(t, Cost("gpt-3.5-turbo", 0, 0))
}

func TestRatesFor_UnknownModelFallsBack(t *testing.T) {
	require.Equal(t, RatesFor(DefaultModel), RatesFor("no-such-model"))
}

func TestTiersAreDistinct(t *testing.T) {
	low := RatesFor("gpt-3.5-turbo")
	high := RatesFor("gpt-4")
	require.Less(t, low.InputPer1K, high.InputPer1K)
	require.Less(t, low.OutputPer1K, high.OutputPer1K)
}
