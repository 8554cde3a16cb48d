// Package metrics exposes Prometheus collectors for the generation pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pipelineRunsTotal      *prometheus.CounterVec
	stageDurationSeconds   *prometheus.HistogramVec
	probeRequestsTotal     *prometheus.CounterVec
	generationCallsTotal   *prometheus.CounterVec
	articlesPublishedTotal prometheus.Counter
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pipelineRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogforge_pipeline_runs_total",
				Help: "Total number of pipeline runs, labeled by outcome.",
			},
			[]string{"status"},
		)

		stageDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blogforge_stage_duration_seconds",
				Help:    "Histogram of pipeline stage durations.",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"stage"},
		)

		probeRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogforge_probe_requests_total",
				Help: "Total number of reachability probes, labeled by result.",
			},
			[]string{"result"},
		)

		generationCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogforge_generation_calls_total",
				Help: "Total number of generative adapter calls, labeled by adapter and status.",
			},
			[]string{"adapter", "status"},
		)

		articlesPublishedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "blogforge_articles_published_total",
				Help: "Total number of articles persisted and published.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogforge_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blogforge_http_request_duration_seconds",
				Help:    "Histogram of HTTP request durations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRun increments the pipeline run counter for the given outcome.
func ObserveRun(status string) {
	Init()
	pipelineRunsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records the duration of one pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	Init()
	stageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveProbe increments the probe counter ("reachable" or "unreachable").
func ObserveProbe(result string) {
	Init()
	probeRequestsTotal.WithLabelValues(result).Inc()
}

// ObserveGeneration increments the adapter call counter.
func ObserveGeneration(adapter, status string) {
	Init()
	generationCallsTotal.WithLabelValues(adapter, status).Inc()
}

// ObserveArticlePublished increments the published article counter.
func ObserveArticlePublished() {
	Init()
	articlesPublishedTotal.Inc()
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
