// Package model wraps the frozen TF-IDF vectorizer and logistic regression
// pair exported from offline training. The artifact is loaded once at process
// start and never mutated afterwards, so one instance serves unlimited
// concurrent readers.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the on-disk JSON export of the trained vectorizer and model.
type Artifact struct {
	ModelVersion string         `json:"model_version"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Coefficients []float64      `json:"coefficients"`
	Intercept    float64        `json:"intercept"`
}

// ReadArtifact loads and validates an artifact file. Any failure here is
// fatal to the process: the engine cannot score without a model signal.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}

	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if len(a.Vocabulary) == 0 {
		return fmt.Errorf("empty vocabulary")
	}
	if len(a.IDF) != len(a.Vocabulary) {
		return fmt.Errorf("idf length %d does not match vocabulary size %d", len(a.IDF), len(a.Vocabulary))
	}
	if len(a.Coefficients) != len(a.Vocabulary) {
		return fmt.Errorf("coefficient length %d does not match vocabulary size %d", len(a.Coefficients), len(a.Vocabulary))
	}
	for token, idx := range a.Vocabulary {
		if idx < 0 || idx >= len(a.IDF) {
			return fmt.Errorf("vocabulary index %d for %q out of range", idx, token)
		}
	}
	return nil
}
