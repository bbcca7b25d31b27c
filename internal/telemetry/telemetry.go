// Package telemetry wires the Pipeline Coordinator's (C8, spec §4.8)
// OpenTelemetry tracing and Prometheus metrics, grounded on the same
// promauto/otel pairing the pack's classifier service uses.
package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "strategist"

// Metrics holds the pipeline's Prometheus instruments.
type Metrics struct {
	StepDuration  *prometheus.HistogramVec
	StepDegraded  *prometheus.CounterVec
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// Provider bundles a tracer with the metrics it feeds.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider builds a Provider with its own private Prometheus
// registry rather than the global default one, so constructing more
// than one Provider in a process (as the test suite does) never
// panics on duplicate metric registration.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  newMetrics(factory),
		registry: reg,
	}
}

func newMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "strategist_step_duration_seconds",
			Help:    "Time spent in each pipeline step",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"step"}),
		StepDegraded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "strategist_step_degraded_total",
			Help: "Count of pipeline steps that completed in a degraded/fallback mode",
		}, []string{"step"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "strategist_runs_total",
			Help: "Total pipeline runs by outcome",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "strategist_run_duration_seconds",
			Help:    "Total wall-clock time of a full pipeline run",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
	}
}

// Handler exposes this provider's own metrics in Prometheus exposition
// format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// StartSpan starts a span for one pipeline step. The caller ends it.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
