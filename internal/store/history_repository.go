package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jobshield/jobshield/internal/domain"
)

// ErrAnalysisNotFound is returned when an analysis ID has no stored result.
var ErrAnalysisNotFound = errors.New("analysis not found")

// HistoryRepository stores completed analyses for later retrieval and
// aggregate statistics. Writes are best-effort from the engine's point of
// view: a failed insert never fails the analysis that produced it.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert stores one completed analysis.
func (r *HistoryRepository) Insert(ctx context.Context, posting *domain.JobPosting, result *domain.AnalysisResult) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analysis_history
			(analysis_id, title, company, verdict, fake_pct, real_pct, model_fake_pct, result, analyzed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.AnalysisID,
		posting.Title,
		result.Company,
		string(result.Verdict),
		result.FakePct,
		result.RealPct,
		result.ModelFakePct,
		string(encoded),
		result.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis history: %w", err)
	}
	return nil
}

// Get retrieves a stored analysis result by ID.
func (r *HistoryRepository) Get(ctx context.Context, analysisID string) (*domain.AnalysisResult, error) {
	var encoded string
	err := r.db.GetContext(ctx, &encoded,
		`SELECT result FROM analysis_history WHERE analysis_id = ?`, analysisID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisNotFound, analysisID)
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", analysisID, err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(encoded), &result); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", analysisID, err)
	}
	return &result, nil
}

// Stats summarizes the stored history.
type Stats struct {
	Total      int `db:"total"        json:"total"`
	FakeCount  int `db:"fake_count"   json:"fake_count"`
	RealCount  int `db:"real_count"   json:"real_count"`
	AvgFakePct int `db:"avg_fake_pct" json:"avg_fake_pct"`
}

// GetStats returns aggregate verdict counts over all stored analyses.
func (r *HistoryRepository) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN verdict = 'fake' THEN 1 ELSE 0 END), 0) AS fake_count,
			COALESCE(SUM(CASE WHEN verdict = 'real' THEN 1 ELSE 0 END), 0) AS real_count,
			COALESCE(CAST(AVG(fake_pct) AS INTEGER), 0) AS avg_fake_pct
		FROM analysis_history`)
	if err != nil {
		return nil, fmt.Errorf("get history stats: %w", err)
	}
	return &stats, nil
}
