package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiking_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	forwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiking_edge_forwarded_total",
			Help: "Requests forwarded to the backend API, by backend status",
		},
		[]string{"method", "status"},
	)

	forwardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hiking_edge_forward_duration_seconds",
			Help:    "Backend round trip latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	forwardFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiking_edge_forward_failures_total",
			Help: "Forwarded requests that never produced a backend response",
		},
	)

	rateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiking_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	recommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiking_form_recommendations_total",
			Help: "Form submissions by outcome (success, failure, stale)",
		},
		[]string{"outcome"},
	)

	trailCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hiking_trail_cache_lookups_total",
			Help: "Trail list cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// ObserveHTTPRequest records a served request.
func ObserveHTTPRequest(method, route string, status int) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveForward records a completed backend round trip.
func ObserveForward(method string, status int, elapsed time.Duration) {
	forwardedTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	forwardDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveForwardFailure records a backend call that failed in transport.
func ObserveForwardFailure() {
	forwardFailures.Inc()
}

// ObserveRateLimitReject records a request refused by the limiter.
func ObserveRateLimitReject() {
	rateLimitRejects.Inc()
}

// ObserveRecommendation records a form submission outcome.
func ObserveRecommendation(outcome string) {
	recommendationOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveTrailCache records a trail cache lookup result.
func ObserveTrailCache(result string) {
	trailCacheLookups.WithLabelValues(result).Inc()
}
