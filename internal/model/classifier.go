package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInference marks a per-request model failure. Unlike verification
// signals, it is never silently defaulted: the analysis fails instead of
// returning a misleadingly confident result.
var ErrInference = errors.New("model inference failed")

// Classifier scores normalized posting text with the frozen artifact.
// All fields are read-only after construction.
type Classifier struct {
	artifact *Artifact
	loadedAt time.Time
}

// Load reads the artifact at path and constructs a classifier. Called once
// at startup; failure means the process cannot serve requests.
func Load(path string) (*Classifier, error) {
	artifact, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return &Classifier{artifact: artifact, loadedAt: time.Now()}, nil
}

// New constructs a classifier from an in-memory artifact. Used by tests.
func New(artifact *Artifact) (*Classifier, error) {
	if err := artifact.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &Classifier{artifact: artifact, loadedAt: time.Now()}, nil
}

// Predict returns the probability that the posting is fake, in [0,1].
// The text must already be normalized.
func (c *Classifier) Predict(normalized string) (float64, error) {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty input text", ErrInference)
	}

	// Sparse term-frequency vector over the known vocabulary.
	tf := make(map[int]float64)
	for _, tok := range tokens {
		if idx, ok := c.artifact.Vocabulary[tok]; ok {
			tf[idx]++
		}
	}

	// TF-IDF with L2 normalization, then the linear decision function.
	var norm float64
	for idx, count := range tf {
		w := count * c.artifact.IDF[idx]
		tf[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
	} else {
		norm = 1
	}

	score := c.artifact.Intercept
	for idx, w := range tf {
		score += (w / norm) * c.artifact.Coefficients[idx]
	}

	p := sigmoid(score)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: non-finite probability", ErrInference)
	}
	return p, nil
}

// Version returns the artifact's model version.
func (c *Classifier) Version() string {
	return c.artifact.ModelVersion
}

// Info describes the loaded artifact for the model-health endpoint.
type Info struct {
	ModelVersion   string    `json:"model_version"`
	VocabularySize int       `json:"vocabulary_size"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// Health returns metadata about the loaded artifact.
func (c *Classifier) Health() Info {
	return Info{
		ModelVersion:   c.artifact.ModelVersion,
		VocabularySize: len(c.artifact.Vocabulary),
		LoadedAt:       c.loadedAt,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Percentages converts a fake probability into the displayed integer pair.
// Each side is rounded independently and any rounding remainder is taken
// from the larger side so the pair always sums to exactly 100.
func Percentages(fakeProb float64) (realPct, fakePct int) {
	fakePct = int(math.Round(fakeProb * 100))
	realPct = int(math.Round((1 - fakeProb) * 100))

	if diff := realPct + fakePct - 100; diff != 0 {
		if fakePct >= realPct {
			fakePct -= diff
		} else {
			realPct -= diff
		}
	}
	return realPct, fakePct
}
