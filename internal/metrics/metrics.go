// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream API calls (wikidata, met).
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_upstream_requests_total",
			Help: "Upstream HTTP requests by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artlog_upstream_request_duration_seconds",
			Help:    "Upstream HTTP request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_upstream_retries_total",
			Help: "Upstream HTTP retries by source",
		},
		[]string{"source"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artlog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Artist aggregate store.
	AggregateIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_artist_aggregate_increments_total",
			Help: "Artist aggregate increments by outcome",
		},
		[]string{"outcome"},
	)

	DocstoreConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_docstore_conflicts_total",
			Help: "Optimistic transaction conflicts that triggered a retry",
		},
		[]string{"driver"},
	)

	EnrichFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artlog_enrich_fallbacks_total",
			Help: "Catalog records returned unenriched after a Met API failure",
		},
	)

	// HTTP API.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_api_requests_total",
			Help: "API requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artlog_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artlog_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// RecordUpstream records one finished upstream call.
func RecordUpstream(source, outcome string, d time.Duration) {
	UpstreamRequests.WithLabelValues(source, outcome).Inc()
	UpstreamDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, path string, status int, d time.Duration) {
	APIRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
