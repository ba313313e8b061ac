package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillreader/streambench/internal/model"
)

func weighted(name string, w float64) model.Scenario {
	return model.Scenario{Name: name, BookID: "b1", Intent: "chat", Query: "q", Weight: w}
}

func TestPicker_WeightedDistribution(t *testing.T) {
	scenarios := []model.Scenario{
		weighted("a", 0.5),
		weighted("b", 0.3),
		weighted("c", 0.2),
	}
	p, err := NewSeededPicker(scenarios, 42)
	require.NoError(t, err)

	const draws = 10000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[p.Pick().Name]++
	}

	// Observed frequencies within +-3% of the configured proportions.
	require.InDelta(t, 0.5, float64(counts["a"])/draws, 0.03)
	require.InDelta(t, 0.3, float64(counts["b"])/draws, 0.03)
	require.InDelta(t, 0.2, float64(counts["c"])/draws, 0.03)
}

func TestPicker_SingleScenario(t *testing.T) {
	p, err := NewSeededPicker([]model.Scenario{weighted("only", 1)}, 1)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.Equal(t, "only", p.Pick().Name)
	}
}

func TestPicker_ZeroWeightUnreachable(t *testing.T) {
	scenarios := []model.Scenario{
		weighted("live", 1.0),
		weighted("dead", 0),
	}
	p, err := NewSeededPicker(scenarios, 3)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		require.Equal(t, "live", p.Pick().Name)
	}
}

func TestNewPicker_Invalid(t *testing.T) {
	_, err := NewPicker(nil)
	require.Error(t, err)

	_, err = NewPicker([]model.Scenario{weighted("a", 0), weighted("b", 0)})
	require.Error(t, err)

	_, err = NewPicker([]model.Scenario{weighted("a", -1), weighted("b", 2)})
	require.Error(t, err)
}

func TestDefaults_Valid(t *testing.T) {
	scenarios := Defaults()
	require.NotEmpty(t, scenarios)
	require.Greater(t, TotalWeight(scenarios), 0.0)

	_, err := NewPicker(scenarios)
	require.NoError(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.json")
	content := `[
		{"name": "custom-chat", "bookId": "book-9", "intent": "chat", "query": "hi", "weight": 2},
		{"name": "custom-translate", "bookId": "book-9", "intent": "translate", "selection": "hola", "targetLang": "en", "weight": 1}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	scenarios, err := Load(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	require.Equal(t, "custom-chat", scenarios[0].Name)
	require.Equal(t, 2.0, scenarios[0].Weight)
	require.Equal(t, "en", scenarios[1].TargetLang)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_EmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
