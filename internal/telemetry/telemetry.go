// Package telemetry provides OpenTelemetry tracing and Prometheus metrics
// for the risk engine.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "jobshield"

// Metrics holds all risk engine Prometheus metrics.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysesFailed   *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	ScoreAdjustment  prometheus.Histogram

	// Signal producer metrics
	KeywordHits        prometheus.Histogram
	EmailSignalsTotal  *prometheus.CounterVec
	IndexLookupsTotal  *prometheus.CounterVec
	IndexLookupLatency prometheus.Histogram
}

// Provider wraps the tracer and metrics handed to the engine and API. Each
// provider carries its own registry, so constructing a second one (as tests
// do) never collides with the first.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	registry := prometheus.NewRegistry()
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(registry),
		registry: registry,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func initMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	m := &Metrics{}

	m.AnalysesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "jobshield_analyses_total",
		Help: "Completed analyses by verdict",
	}, []string{"verdict"})

	m.AnalysesFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "jobshield_analyses_failed_total",
		Help: "Failed analyses by error category",
	}, []string{"category"})

	m.AnalysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobshield_analysis_duration_seconds",
		Help:    "End-to-end time to analyze a single posting",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})

	m.ScoreAdjustment = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobshield_score_adjustment_points",
		Help:    "Difference between final and model-only fake percentage",
		Buckets: []float64{-30, -20, -10, -5, 0, 5, 10, 20, 30, 50},
	})

	m.KeywordHits = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobshield_keyword_hits",
		Help:    "Scam phrases matched per analysis",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	})

	m.EmailSignalsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "jobshield_email_signals_total",
		Help: "Email hygiene signals by type",
	}, []string{"signal"})

	m.IndexLookupsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "jobshield_index_lookups_total",
		Help: "Public job index lookups by outcome (found, not_found)",
	}, []string{"outcome"})

	m.IndexLookupLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobshield_index_lookup_latency_seconds",
		Help:    "Public job index lookup latency including degraded lookups",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})

	return m
}

// StartAnalysisSpan starts the per-analysis span.
func (p *Provider) StartAnalysisSpan(ctx context.Context, title string) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, "engine.analyze",
		trace.WithAttributes(attribute.String("posting.title", title)))
}

// RecordAnalysis records a completed analysis.
func (p *Provider) RecordAnalysis(verdict string, modelFakePct, fakePct int, duration time.Duration) {
	p.Metrics.AnalysesTotal.WithLabelValues(verdict).Inc()
	p.Metrics.AnalysisDuration.Observe(duration.Seconds())
	p.Metrics.ScoreAdjustment.Observe(float64(fakePct - modelFakePct))
}

// RecordIndexLookup records one job index lookup outcome.
func (p *Provider) RecordIndexLookup(found bool, latency time.Duration) {
	outcome := "not_found"
	if found {
		outcome = "found"
	}
	p.Metrics.IndexLookupsTotal.WithLabelValues(outcome).Inc()
	p.Metrics.IndexLookupLatency.Observe(latency.Seconds())
}
