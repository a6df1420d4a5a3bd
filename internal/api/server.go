package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/logging"
)

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Server is the HTTP server with lifecycle management.
type Server struct {
	router   *gin.Engine
	server   *http.Server
	logger   logging.Logger
	shutdown time.Duration
}

// NewServer builds the router, applies standard middleware, and mounts all
// routes. metricsHandler serves the Prometheus scrape endpoint; pass nil to
// skip mounting it.
func NewServer(cfg *config.Config, handler *Handler, metricsHandler http.Handler, log logging.Logger) *Server {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))

	setupRoutes(router, handler, metricsHandler, cfg.Auth.JWTSecret)

	readTimeout := cfg.Service.ReadTimeout
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := cfg.Service.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}
	shutdownTimeout := cfg.Service.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		logger:   log,
		shutdown: shutdownTimeout,
	}
}

// setupRoutes mounts health, metrics, and the versioned API group. The API
// group is JWT-protected when a secret is configured.
func setupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler, jwtSecret string) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")
	if jwtSecret != "" {
		v1.Use(JWTMiddleware(jwtSecret))
	}

	analyze := v1.Group("/analyze")
	analyze.POST("", handler.Analyze)                 // POST /api/v1/analyze
	analyze.GET("/:analysis_id", handler.GetAnalysis) // GET /api/v1/analyze/:analysis_id

	lists := v1.Group("/lists")
	lists.GET("", handler.ListSignalLists)        // GET /api/v1/lists
	lists.GET("/:name", handler.GetSignalList)    // GET /api/v1/lists/:name
	lists.PUT("/:name", handler.UpdateSignalList) // PUT /api/v1/lists/:name

	v1.GET("/stats", handler.GetStats) // GET /api/v1/stats

	metrics := v1.Group("/metrics")
	metrics.GET("/model-health", handler.GetModelHealth) // GET /api/v1/metrics/model-health
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server until it is shut down. Blocking.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		logging.String("address", s.server.Addr),
		logging.Duration("read_timeout", s.server.ReadTimeout),
		logging.Duration("write_timeout", s.server.WriteTimeout))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server", logging.Duration("timeout", s.shutdown))

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdown)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// RunWithGracefulShutdown starts the server and shuts it down on SIGINT,
// SIGTERM, or context cancellation.
func (s *Server) RunWithGracefulShutdown(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down")
	}

	// Fresh context: the original may already be cancelled.
	return s.Shutdown(context.Background())
}
