// Package testhelpers provides shared test doubles for the analysis engine.
package testhelpers

import (
	"context"
	"sync"

	"github.com/jobshield/jobshield/internal/domain"
)

// StubPredictor implements engine.Predictor with a fixed probability.
type StubPredictor struct {
	FakeProb float64
	Err      error
	Model    string
	Calls    int
	mu       sync.Mutex
}

// Predict returns the configured probability or error.
func (s *StubPredictor) Predict(_ string) (float64, error) {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.FakeProb, nil
}

// Version returns the configured model version.
func (s *StubPredictor) Version() string {
	if s.Model == "" {
		return "stub-model"
	}
	return s.Model
}

// StubVerifier implements engine.IndexVerifier with a canned result.
type StubVerifier struct {
	Result domain.IndexVerification
	Calls  int
	mu     sync.Mutex
}

// Verify returns the canned verification result.
func (s *StubVerifier) Verify(_ context.Context, _, _, _ string) domain.IndexVerification {
	s.mu.Lock()
	s.Calls++
	s.mu.Unlock()
	return s.Result
}

// MockHistory implements engine.HistoryWriter in memory.
type MockHistory struct {
	mu      sync.Mutex
	Results []*domain.AnalysisResult
	Err     error
}

// Insert records the result, or fails with the configured error.
func (m *MockHistory) Insert(_ context.Context, _ *domain.JobPosting, result *domain.AnalysisResult) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results = append(m.Results, result)
	return nil
}

// Stored returns a snapshot of recorded results.
func (m *MockHistory) Stored() []*domain.AnalysisResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AnalysisResult, len(m.Results))
	copy(out, m.Results)
	return out
}
