// Package domain defines the core types of the risk scoring engine.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks request-shape failures that are rejected before any
// signal producer runs.
var ErrValidation = errors.New("validation failed")

// JobPosting is the immutable input to an analysis.
type JobPosting struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Validate rejects postings whose title or description is empty after
// trimming. Company and location are optional.
func (p *JobPosting) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}
