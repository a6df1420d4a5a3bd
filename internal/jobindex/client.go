// Package jobindex queries a public job index (Adzuna) for listings that
// corroborate a posting. It is the engine's only outbound network dependency
// and always degrades to "not found" instead of failing an analysis.
package jobindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/logging"
)

const sourceName = "adzuna"

// ErrUnavailable marks a lookup that failed at the transport or service
// level. It never escapes Verify; lookups log it and degrade to not found.
var ErrUnavailable = errors.New("job index unavailable")

// Verifier checks a posting against the public job index.
type Verifier struct {
	cfg     config.JobIndexConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewVerifier constructs a verifier with a shared HTTP client and an
// outbound rate limiter.
func NewVerifier(cfg config.JobIndexConfig, logger logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Verifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst),
		logger:  logger,
	}
}

// indexResponse mirrors the top-level Adzuna JSON response.
type indexResponse struct {
	Results []indexResult `json:"results"`
	Count   int           `json:"count"`
}

// indexResult mirrors a single Adzuna listing.
type indexResult struct {
	Title       string       `json:"title"`
	Company     indexCompany `json:"company"`
	RedirectURL string       `json:"redirect_url"`
}

type indexCompany struct {
	DisplayName string `json:"display_name"`
}

// Verify queries the index for listings similar to the posting. A candidate
// counts as a match when its title is close to the queried title and, if a
// company is known, its company is close too. Any failure (missing
// credentials, timeout, non-2xx, malformed payload) or zero accepted
// candidates yields the degraded zero result; Verify never returns an error.
func (v *Verifier) Verify(ctx context.Context, title, company, location string) domain.IndexVerification {
	if v.cfg.AppID == "" || v.cfg.AppKey == "" {
		v.logger.Warn("job index credentials not set, skipping verification")
		return domain.IndexVerification{}
	}

	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	matches := 0
	var sample *domain.IndexMatch

	for page := 1; page <= v.cfg.MaxPages && matches < v.cfg.MaxMatches; page++ {
		if err := v.limiter.Wait(ctx); err != nil {
			v.logger.Warn("job index rate limiter wait failed", logging.Error(err))
			break
		}

		results, err := v.fetchPage(ctx, title, location, page)
		if err != nil {
			v.logger.Warn("job index page fetch failed",
				logging.Int("page", page),
				logging.Error(err))
			continue
		}
		if len(results) == 0 {
			break
		}

		for i := range results {
			if matches >= v.cfg.MaxMatches {
				break
			}
			if !v.accepts(title, company, &results[i]) {
				continue
			}
			matches++
			if sample == nil {
				sample = &domain.IndexMatch{
					Title:   results[i].Title,
					Company: results[i].Company.DisplayName,
					URL:     results[i].RedirectURL,
					Source:  sourceName,
				}
			}
		}

		if len(results) < v.cfg.PageSize {
			break
		}
	}

	return domain.IndexVerification{
		Found:   matches > 0,
		Matches: matches,
		Sample:  sample,
	}
}

// accepts applies the fuzzy title and company thresholds to one candidate.
// A missing company counts as a perfect company match.
func (v *Verifier) accepts(title, company string, candidate *indexResult) bool {
	if TokenSetRatio(title, candidate.Title) < v.cfg.TitleSimilarity {
		return false
	}
	if company == "" {
		return true
	}
	return TokenSetRatio(company, candidate.Company.DisplayName) >= v.cfg.CompanySimilarity
}

func (v *Verifier) fetchPage(ctx context.Context, title, location string, page int) ([]indexResult, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", v.cfg.BaseURL, v.cfg.Country, page)

	params := url.Values{}
	params.Set("app_id", v.cfg.AppID)
	params.Set("app_key", v.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(v.cfg.PageSize))
	params.Set("what", title)
	if location != "" {
		params.Set("where", location)
	}
	params.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var apiResp indexResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return apiResp.Results, nil
}

// SetTimeout overrides the per-analysis lookup deadline. Used in tests.
func (v *Verifier) SetTimeout(d time.Duration) {
	v.cfg.Timeout = d
	v.client.Timeout = d
}
