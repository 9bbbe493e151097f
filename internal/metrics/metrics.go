// Package metrics exposes Prometheus collectors for upstream calls and the
// fallback responses that keep every public endpoint at HTTP 200.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Endpoint labels
const (
	EndpointBackgrounds = "backgrounds"
	EndpointProjects    = "github-projects"
	EndpointReviews     = "reviews"
)

// Fallback reasons
const (
	ReasonNotFound = "not_found"
	ReasonRead     = "read_error"
	ReasonEmpty    = "empty"
	ReasonUpstream = "upstream_error"
	ReasonStatus   = "upstream_status"
	ReasonDecode   = "decode_error"
)

var (
	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "site_api",
			Name:      "fallbacks_total",
			Help:      "Responses served from the fallback path instead of live data",
		},
		[]string{"endpoint", "reason"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "site_api",
			Name:      "upstream_requests_total",
			Help:      "Outbound requests by target and outcome",
		},
		[]string{"target", "outcome"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "site_api",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of outbound requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "site_api",
			Name:      "cache_lookups_total",
			Help:      "Project cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordFallback counts a fallback response.
func RecordFallback(endpoint, reason string) {
	fallbacksTotal.WithLabelValues(endpoint, reason).Inc()
}

// RecordUpstreamCall records one outbound request.
func RecordUpstreamCall(target string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequestsTotal.WithLabelValues(target, outcome).Inc()
	upstreamDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// RecordCacheLookup counts a cache "hit", "miss" or "error".
func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}
