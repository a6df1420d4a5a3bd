package api

import (
	"time"

	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/store"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
}

func (r *AnalyzeRequest) toPosting() *domain.JobPosting {
	return &domain.JobPosting{
		Title:       r.Title,
		Description: r.Description,
		Company:     r.Company,
		Location:    r.Location,
	}
}

// AnalyzeResponse wraps a completed analysis.
type AnalyzeResponse struct {
	Result *domain.AnalysisResult `json:"result"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SignalListResponse describes one configurable signal list.
type SignalListResponse struct {
	Name      string   `json:"name"`
	Version   int      `json:"version"`
	Entries   []string `json:"entries"`
	UpdatedAt string   `json:"updated_at"`
}

// SignalListsResponse is the body of GET /api/v1/lists.
type SignalListsResponse struct {
	Lists []SignalListResponse `json:"lists"`
	Total int                  `json:"total"`
}

// UpdateListRequest is the body of PUT /api/v1/lists/:name.
type UpdateListRequest struct {
	Entries []string `json:"entries" binding:"required,min=1"`
}

func toListResponse(list *store.SignalList) SignalListResponse {
	return SignalListResponse{
		Name:      list.Name,
		Version:   list.Version,
		Entries:   list.Entries,
		UpdatedAt: list.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
