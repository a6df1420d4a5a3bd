// Package bootstrap wires configuration into runnable components. Both the
// HTTP server and the batch scorer build their stacks here so the wiring
// stays in one place.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jobshield/jobshield/internal/combiner"
	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/email"
	"github.com/jobshield/jobshield/internal/engine"
	"github.com/jobshield/jobshield/internal/jobindex"
	"github.com/jobshield/jobshield/internal/keywords"
	"github.com/jobshield/jobshield/internal/logging"
	"github.com/jobshield/jobshield/internal/model"
	"github.com/jobshield/jobshield/internal/store"
	"github.com/jobshield/jobshield/internal/telemetry"
)

// Components holds everything a binary needs to serve analyses.
type Components struct {
	DB         *sqlx.DB
	Classifier *model.Classifier
	Scanner    *keywords.Scanner
	Emails     *email.Analyzer
	ListsRepo  *store.ListsRepository
	History    *store.HistoryRepository
	Telemetry  *telemetry.Provider
	Engine     *engine.Engine
}

// NewComponents builds the full analysis stack from configuration. The model
// artifact is a hard dependency; everything else degrades or falls back.
func NewComponents(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Components, error) {
	classifier, err := model.Load(cfg.Model.ArtifactPath)
	if err != nil {
		return nil, fmt.Errorf("load model artifact: %w", err)
	}
	logger.Info("model artifact loaded",
		logging.String("model_version", classifier.Version()),
		logging.Int("vocabulary_size", classifier.Health().VocabularySize))

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	listsRepo := store.NewListsRepository(db)
	seedLists(ctx, cfg, listsRepo, logger)

	scamPhrases := loadList(ctx, listsRepo, store.ListScamPhrases, seedEntries(cfg).scamPhrases, logger)
	freeDomains := loadList(ctx, listsRepo, store.ListFreeEmailDomains, seedEntries(cfg).freeDomains, logger)
	disposable := loadList(ctx, listsRepo, store.ListDisposablePatterns, seedEntries(cfg).disposable, logger)

	scanner := keywords.NewScanner(scamPhrases.Entries, scamPhrases.Version, logger)
	emailListVersion := freeDomains.Version
	if disposable.Version > emailListVersion {
		emailListVersion = disposable.Version
	}
	emailAnalyzer := email.NewAnalyzer(freeDomains.Entries, disposable.Entries, emailListVersion, logger)
	history := store.NewHistoryRepository(db)
	provider := telemetry.NewProvider()

	analysisEngine, err := engine.New(engine.Options{
		Predictor: classifier,
		Scanner:   scanner,
		Emails:    emailAnalyzer,
		Index:     jobindex.NewVerifier(cfg.JobIndex, logger),
		Combiner:  combiner.New(cfg.Combiner),
		History:   history,
		Telemetry: provider,
		Logger:    logger,
		Version:   cfg.Service.Version,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build analysis engine: %w", err)
	}

	return &Components{
		DB:         db,
		Classifier: classifier,
		Scanner:    scanner,
		Emails:     emailAnalyzer,
		ListsRepo:  listsRepo,
		History:    history,
		Telemetry:  provider,
		Engine:     analysisEngine,
	}, nil
}

// Close releases held resources.
func (c *Components) Close() error {
	return c.DB.Close()
}

type seeds struct {
	scamPhrases []string
	freeDomains []string
	disposable  []string
}

// seedEntries resolves the seed lists: config-supplied entries win over the
// built-in defaults.
func seedEntries(cfg *config.Config) seeds {
	s := seeds{
		scamPhrases: cfg.Signals.ScamPhrases,
		freeDomains: cfg.Signals.FreeEmailDomains,
		disposable:  cfg.Signals.DisposablePatterns,
	}
	if len(s.scamPhrases) == 0 {
		s.scamPhrases = config.DefaultScamPhrases()
	}
	if len(s.freeDomains) == 0 {
		s.freeDomains = config.DefaultFreeEmailDomains()
	}
	if len(s.disposable) == 0 {
		s.disposable = config.DefaultDisposablePatterns()
	}
	return s
}

// seedLists writes the seed signal lists on first start. Existing rows are
// left untouched so operator edits survive restarts.
func seedLists(ctx context.Context, cfg *config.Config, repo *store.ListsRepository, logger logging.Logger) {
	s := seedEntries(cfg)
	for name, entries := range map[string][]string{
		store.ListScamPhrases:        s.scamPhrases,
		store.ListFreeEmailDomains:   s.freeDomains,
		store.ListDisposablePatterns: s.disposable,
	} {
		if err := repo.Seed(ctx, name, entries); err != nil {
			logger.Warn("failed to seed signal list",
				logging.String("name", name),
				logging.Error(err))
		}
	}
}

// loadList reads a signal list, falling back to the seed entries when the
// stored copy cannot be read.
func loadList(ctx context.Context, repo *store.ListsRepository, name string, defaults []string, logger logging.Logger) *store.SignalList {
	list, err := repo.Get(ctx, name)
	if err != nil {
		logger.Warn("falling back to seed signal list",
			logging.String("name", name),
			logging.Error(err))
		return &store.SignalList{Name: name, Version: 1, Entries: defaults}
	}
	return list
}
