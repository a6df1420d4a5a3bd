package model_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobshield/jobshield/internal/model"
)

func testArtifact() *model.Artifact {
	return &model.Artifact{
		ModelVersion: "test-1",
		Vocabulary:   map[string]int{"money": 0, "wire": 1, "engineer": 2, "team": 3},
		IDF:          []float64{2.0, 3.0, 1.5, 1.2},
		Coefficients: []float64{1.5, 2.0, -1.5, -1.0},
		Intercept:    -0.5,
	}
}

func TestClassifier_Predict(t *testing.T) {
	classifier, err := model.New(testArtifact())
	require.NoError(t, err)

	t.Run("scammy text scores above neutral", func(t *testing.T) {
		p, err := classifier.Predict("wire money money fast")
		require.NoError(t, err)
		assert.Greater(t, p, 0.5)
		assert.LessOrEqual(t, p, 1.0)
	})

	t.Run("legit text scores below neutral", func(t *testing.T) {
		p, err := classifier.Predict("engineer joining our team")
		require.NoError(t, err)
		assert.Less(t, p, 0.5)
		assert.GreaterOrEqual(t, p, 0.0)
	})

	t.Run("out of vocabulary text falls back to intercept", func(t *testing.T) {
		p, err := classifier.Predict("completely unknown words here")
		require.NoError(t, err)
		// sigmoid(-0.5)
		assert.InDelta(t, 1/(1+math.Exp(0.5)), p, 1e-9)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := classifier.Predict("wire money to our team")
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			p, err := classifier.Predict("wire money to our team")
			require.NoError(t, err)
			assert.Equal(t, first, p)
		}
	})

	t.Run("empty input is an inference error", func(t *testing.T) {
		_, err := classifier.Predict("")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInference)
	})
}

func TestReadArtifact_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing file", ""},
		{"malformed json", `{"model_version": `},
		{"empty vocabulary", `{"model_version":"v","vocabulary":{},"idf":[],"coefficients":[],"intercept":0}`},
		{"length mismatch", `{"model_version":"v","vocabulary":{"a":0},"idf":[1.0,2.0],"coefficients":[1.0],"intercept":0}`},
		{"index out of range", `{"model_version":"v","vocabulary":{"a":5},"idf":[1.0],"coefficients":[1.0],"intercept":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "artifact.json")
			if tt.content != "" {
				require.NoError(t, writeFile(path, tt.content))
			}
			_, err := model.ReadArtifact(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ValidArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	content := `{
		"model_version": "2024.1",
		"vocabulary": {"money": 0, "team": 1},
		"idf": [2.0, 1.2],
		"coefficients": [1.5, -1.0],
		"intercept": -0.3
	}`
	require.NoError(t, writeFile(path, content))

	classifier, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2024.1", classifier.Version())

	info := classifier.Health()
	assert.Equal(t, "2024.1", info.ModelVersion)
	assert.Equal(t, 2, info.VocabularySize)
	assert.False(t, info.LoadedAt.IsZero())
}

func TestPercentages(t *testing.T) {
	tests := []struct {
		name     string
		fakeProb float64
		wantReal int
		wantFake int
	}{
		{"zero", 0.0, 100, 0},
		{"one", 1.0, 0, 100},
		{"half", 0.5, 50, 50},
		{"rounding remainder taken from larger side", 0.005, 99, 1},
		{"typical", 0.73, 27, 73},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			realPct, fakePct := model.Percentages(tt.fakeProb)
			assert.Equal(t, tt.wantReal, realPct)
			assert.Equal(t, tt.wantFake, fakePct)
			assert.Equal(t, 100, realPct+fakePct)
		})
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestPercentages_AlwaysSumTo100(t *testing.T) {
	for p := 0.0; p <= 1.0; p += 0.013 {
		realPct, fakePct := model.Percentages(p)
		assert.Equal(t, 100, realPct+fakePct, "fakeProb=%f", p)
		assert.GreaterOrEqual(t, fakePct, 0)
		assert.LessOrEqual(t, fakePct, 100)
	}
}
