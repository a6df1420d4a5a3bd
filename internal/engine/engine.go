// Package engine orchestrates one posting analysis: validation, the
// four-way signal fan-out, and the final combination.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jobshield/jobshield/internal/combiner"
	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/logging"
	"github.com/jobshield/jobshield/internal/telemetry"
	"github.com/jobshield/jobshield/internal/textnorm"
)

// Predictor is the frozen classifier contract. The artifact behind it is
// loaded once at startup and injected here, never looked up globally.
type Predictor interface {
	Predict(normalized string) (float64, error)
	Version() string
}

// KeywordScanner produces scam-phrase hits from normalized text.
type KeywordScanner interface {
	Scan(normalized string) []string
}

// EmailAnalyzer produces hygiene signals from the raw description.
type EmailAnalyzer interface {
	Analyze(rawDescription, company string) []domain.EmailSignal
}

// IndexVerifier checks a posting against the public job index. It never
// returns an error; failures degrade to the zero IndexVerification.
type IndexVerifier interface {
	Verify(ctx context.Context, title, company, location string) domain.IndexVerification
}

// HistoryWriter persists completed analyses. Writes are best-effort.
type HistoryWriter interface {
	Insert(ctx context.Context, posting *domain.JobPosting, result *domain.AnalysisResult) error
}

// Options holds the engine's injected collaborators.
type Options struct {
	Predictor Predictor
	Scanner   KeywordScanner
	Emails    EmailAnalyzer
	Index     IndexVerifier
	Combiner  *combiner.Combiner
	History   HistoryWriter // optional
	Telemetry *telemetry.Provider
	Logger    logging.Logger
	Version   string
}

// Engine analyzes one posting per call. All state is read-only after
// construction, so a single engine serves concurrent requests.
type Engine struct {
	predictor Predictor
	scanner   KeywordScanner
	emails    EmailAnalyzer
	index     IndexVerifier
	combiner  *combiner.Combiner
	history   HistoryWriter
	telemetry *telemetry.Provider
	logger    logging.Logger
	version   string
}

// New creates an engine from its collaborators.
func New(opts Options) (*Engine, error) {
	if opts.Predictor == nil {
		return nil, errors.New("engine: predictor is required")
	}
	if opts.Scanner == nil {
		return nil, errors.New("engine: keyword scanner is required")
	}
	if opts.Emails == nil {
		return nil, errors.New("engine: email analyzer is required")
	}
	if opts.Index == nil {
		return nil, errors.New("engine: index verifier is required")
	}
	if opts.Combiner == nil {
		return nil, errors.New("engine: combiner is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	return &Engine{
		predictor: opts.Predictor,
		scanner:   opts.Scanner,
		emails:    opts.Emails,
		index:     opts.Index,
		combiner:  opts.Combiner,
		history:   opts.History,
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
		version:   opts.Version,
	}, nil
}

// Analyze runs one full posting analysis.
//
// The four signal producers have no data dependency on each other and run
// concurrently; only the index lookup blocks on the network and it resolves
// to "not found" on its own timeout. Classifier failure fails the analysis:
// scoring without a model signal is not a safe degraded mode.
func (e *Engine) Analyze(ctx context.Context, posting *domain.JobPosting) (*domain.AnalysisResult, error) {
	start := time.Now()

	if err := posting.Validate(); err != nil {
		e.recordFailure("validation")
		return nil, err
	}

	var span trace.Span
	if e.telemetry != nil {
		ctx, span = e.telemetry.StartAnalysisSpan(ctx, posting.Title)
		defer span.End()
	}

	company := e.effectiveCompany(posting)
	normalized := textnorm.Normalize(posting.Title, posting.Description)

	var (
		fakeProb     float64
		kwHits       []string
		emailSignals []domain.EmailSignal
		indexResult  domain.IndexVerification
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := e.predictor.Predict(normalized)
		if err != nil {
			return fmt.Errorf("model signal: %w", err)
		}
		fakeProb = p
		return nil
	})

	g.Go(func() error {
		kwHits = e.scanner.Scan(normalized)
		return nil
	})

	g.Go(func() error {
		emailSignals = e.emails.Analyze(posting.Description, company)
		return nil
	})

	g.Go(func() error {
		lookupStart := time.Now()
		indexResult = e.index.Verify(gctx, posting.Title, company, posting.Location)
		if e.telemetry != nil {
			e.telemetry.RecordIndexLookup(indexResult.Found, time.Since(lookupStart))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		e.recordFailure("internal")
		e.logger.Error("analysis failed",
			logging.String("title", posting.Title),
			logging.Error(err))
		return nil, err
	}

	result := e.combiner.Combine(fakeProb, kwHits, emailSignals, indexResult)
	result.AnalysisID = uuid.NewString()
	result.Company = company
	result.EngineVersion = e.version
	result.ModelVersion = e.predictor.Version()
	result.AnalyzedAt = time.Now().UTC()
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	if span != nil {
		span.SetAttributes(
			attribute.String("analysis.verdict", string(result.Verdict)),
			attribute.Int("analysis.fake_pct", result.FakePct),
			attribute.Bool("analysis.index_found", indexResult.Found),
		)
	}

	e.record(&result, time.Since(start))
	e.persist(ctx, posting, &result)

	e.logger.Info("analysis completed",
		logging.String("analysis_id", result.AnalysisID),
		logging.String("verdict", string(result.Verdict)),
		logging.Int("model_fake_pct", result.ModelFakePct),
		logging.Int("fake_pct", result.FakePct),
		logging.Int("keyword_hits", len(kwHits)),
		logging.Bool("index_found", indexResult.Found))

	return &result, nil
}

func (e *Engine) record(result *domain.AnalysisResult, duration time.Duration) {
	if e.telemetry == nil {
		return
	}
	e.telemetry.RecordAnalysis(string(result.Verdict), result.ModelFakePct, result.FakePct, duration)
	e.telemetry.Metrics.KeywordHits.Observe(float64(len(result.Verification.KeywordHits)))
	for _, email := range result.Verification.Emails {
		for _, sig := range email.Signals {
			e.telemetry.Metrics.EmailSignalsTotal.WithLabelValues(sig).Inc()
		}
	}
}

func (e *Engine) recordFailure(category string) {
	if e.telemetry != nil {
		e.telemetry.Metrics.AnalysesFailed.WithLabelValues(category).Inc()
	}
}

// persist stores the result in history. Failures are logged, never fatal.
func (e *Engine) persist(ctx context.Context, posting *domain.JobPosting, result *domain.AnalysisResult) {
	if e.history == nil {
		return
	}
	if err := e.history.Insert(ctx, posting, result); err != nil {
		e.logger.Warn("failed to store analysis history",
			logging.String("analysis_id", result.AnalysisID),
			logging.Error(err))
	}
}
