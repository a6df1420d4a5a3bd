package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/email"
	"github.com/jobshield/jobshield/internal/keywords"
	"github.com/jobshield/jobshield/internal/logging"
	"github.com/jobshield/jobshield/internal/model"
	"github.com/jobshield/jobshield/internal/store"
)

// Analyzer runs one posting analysis.
type Analyzer interface {
	Analyze(ctx context.Context, posting *domain.JobPosting) (*domain.AnalysisResult, error)
}

// Handler handles HTTP requests for the analysis API.
type Handler struct {
	engine     Analyzer
	classifier *model.Classifier
	scanner    *keywords.Scanner
	emails     *email.Analyzer
	listsRepo  *store.ListsRepository
	history    *store.HistoryRepository
	logger     logging.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	engine Analyzer,
	classifier *model.Classifier,
	scanner *keywords.Scanner,
	emails *email.Analyzer,
	listsRepo *store.ListsRepository,
	history *store.HistoryRepository,
	logger logging.Logger,
) *Handler {
	return &Handler{
		engine:     engine,
		classifier: classifier,
		scanner:    scanner,
		emails:     emails,
		listsRepo:  listsRepo,
		history:    history,
		logger:     logger,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", logging.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.engine.Analyze(c.Request.Context(), req.toPosting())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("analysis request failed", logging.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "analysis could not be completed"})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Result: result})
}

// GetAnalysis handles GET /api/v1/analyze/:analysis_id.
func (h *Handler) GetAnalysis(c *gin.Context) {
	analysisID := c.Param("analysis_id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "analysis_id is required"})
		return
	}

	result, err := h.history.Get(c.Request.Context(), analysisID)
	if err != nil {
		if errors.Is(err, store.ErrAnalysisNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "analysis not found"})
			return
		}
		h.logger.Error("failed to load analysis", logging.String("analysis_id", analysisID), logging.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load analysis"})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Result: result})
}

// ListSignalLists handles GET /api/v1/lists.
func (h *Handler) ListSignalLists(c *gin.Context) {
	lists, err := h.listsRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list signal lists", logging.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load lists"})
		return
	}

	response := make([]SignalListResponse, len(lists))
	for i, list := range lists {
		response[i] = toListResponse(list)
	}

	c.JSON(http.StatusOK, SignalListsResponse{Lists: response, Total: len(response)})
}

// GetSignalList handles GET /api/v1/lists/:name.
func (h *Handler) GetSignalList(c *gin.Context) {
	name := c.Param("name")

	list, err := h.listsRepo.Get(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "list not found"})
			return
		}
		h.logger.Error("failed to get signal list", logging.String("name", name), logging.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load list"})
		return
	}

	c.JSON(http.StatusOK, toListResponse(list))
}

// UpdateSignalList handles PUT /api/v1/lists/:name. A successful update is
// applied to the running scanners immediately, without a restart.
func (h *Handler) UpdateSignalList(c *gin.Context) {
	name := c.Param("name")

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update list request", logging.String("name", name), logging.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	list, err := h.listsRepo.Update(c.Request.Context(), name, req.Entries)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "list not found"})
			return
		}
		h.logger.Error("failed to update signal list", logging.String("name", name), logging.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update list"})
		return
	}

	h.reloadSignalLists(c.Request.Context(), list)

	h.logger.Info("signal list updated",
		logging.String("name", list.Name),
		logging.Int("version", list.Version),
		logging.Int("entries", len(list.Entries)))

	c.JSON(http.StatusOK, toListResponse(list))
}

// GetModelHealth handles GET /api/v1/metrics/model-health.
func (h *Handler) GetModelHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.classifier.Health())
}

// GetStats handles GET /api/v1/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.history.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get stats", logging.Error(err))
		// Empty stats keep dashboards alive when history is unavailable.
		c.JSON(http.StatusOK, &store.Stats{})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "jobshield",
	})
}

// ReadyCheck handles GET /ready. The service is ready once the model
// artifact is loaded and the phrase matcher is built.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{
			"model":   h.classifier.Version(),
			"phrases": h.scanner.PhraseCount(),
		},
	})
}

// reloadSignalLists pushes an updated list into the matching component. The
// email analyzer needs both of its lists, so the untouched one is re-read.
func (h *Handler) reloadSignalLists(ctx context.Context, updated *store.SignalList) {
	switch updated.Name {
	case store.ListScamPhrases:
		h.scanner.UpdatePhrases(updated.Entries, updated.Version)
	case store.ListFreeEmailDomains, store.ListDisposablePatterns:
		free, disposable := updated, updated
		var err error
		if updated.Name == store.ListFreeEmailDomains {
			disposable, err = h.listsRepo.Get(ctx, store.ListDisposablePatterns)
		} else {
			free, err = h.listsRepo.Get(ctx, store.ListFreeEmailDomains)
		}
		if err != nil {
			h.logger.Error("failed to reload email signal lists", logging.Error(err))
			return
		}
		// The analyzer holds one version over two lists; the newer list wins
		// so the reported version never regresses.
		version := free.Version
		if disposable.Version > version {
			version = disposable.Version
		}
		h.emails.UpdateLists(free.Entries, disposable.Entries, version)
	}
}
