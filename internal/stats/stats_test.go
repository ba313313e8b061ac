package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillreader/streambench/internal/model"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, model.Stats{}, s)

	s = Summarize([]float64{})
	require.Equal(t, model.Stats{}, s)
}

func TestSummarize_SingleSample(t *testing.T) {
	s := Summarize([]float64{42.0})
	require.Equal(t, 42.0, s.Mean)
	require.Equal(t, 42.0, s.Median)
	require.Equal(t, 42.0, s.P50)
	require.Equal(t, 42.0, s.P95)
	require.Equal(t, 42.0, s.P99)
	require.Equal(t, 42.0, s.Min)
	require.Equal(t, 42.0, s.Max)
	require.Equal(t, 0.0, s.StdDev)
}

func TestSummarize_KnownDistribution(t *testing.T) {
	// 1..100 shuffled; Summarize must sort internally.
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i + 1)
	}
	rand.New(rand.NewSource(1)).Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})

	s := Summarize(samples)
	require.Equal(t, 50.5, s.Mean)
	require.Equal(t, 51.0, s.Median) // element at floor(n/2), not averaged pair
	require.Equal(t, 51.0, s.P50)
	require.Equal(t, 96.0, s.P95)
	require.Equal(t, 100.0, s.P99)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 100.0, s.Max)
	// Population std dev of 1..100 is sqrt((100^2-1)/12) ~= 28.866
	require.Equal(t, 28.87, s.StdDev)
}

func TestSummarize_PercentileOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = rng.Float64() * 5000
	}

	s := Summarize(samples)
	require.LessOrEqual(t, s.P50, s.P95)
	require.LessOrEqual(t, s.P95, s.P99)
	require.LessOrEqual(t, s.Min, s.Median)
	require.LessOrEqual(t, s.Median, s.Max)
	require.LessOrEqual(t, s.P99, s.Max)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	samples := []float64{3, 1, 2}
	Summarize(samples)
	require.Equal(t, []float64{3, 1, 2}, samples)
}

func TestSummarize_Rounding(t *testing.T) {
	s := Summarize([]float64{1.234, 5.678})
	require.Equal(t, 3.46, s.Mean)
	require.Equal(t, 5.68, s.Median)
	require.Equal(t, 1.23, s.Min)
	require.Equal(t, 5.68, s.Max)
}
