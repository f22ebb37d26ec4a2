// Package metrics provides Prometheus metrics for geopulse.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestsTotal counts provider calls by outcome (success, quota, unavailable, failure).
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geopulse",
			Name:      "provider_requests_total",
			Help:      "Total number of provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderDuration measures provider call latency.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geopulse",
			Name:      "provider_duration_seconds",
			Help:      "Duration of provider calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// FallbacksTotal counts responses served from mock data.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geopulse",
			Name:      "mock_fallbacks_total",
			Help:      "Total number of responses served from mock data",
		},
		[]string{"operation", "reason"},
	)

	// RateLimitedTotal counts calls rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geopulse",
			Name:      "rate_limited_total",
			Help:      "Total number of calls rejected by the rate limiter",
		},
		[]string{"operation"},
	)

	// SummariesTotal counts summarization attempts by result.
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geopulse",
			Name:      "summaries_total",
			Help:      "Total number of summarization attempts by result",
		},
		[]string{"result"},
	)

	// RelayPublishedTotal counts items relayed to publishers.
	RelayPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geopulse",
			Name:      "relay_published_total",
			Help:      "Total number of items relayed by publisher and status",
		},
		[]string{"publisher", "status"},
	)
)

// RecordProviderCall records one provider call.
func RecordProviderCall(provider, outcome string, duration float64) {
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration)
}

// RecordFallback records a mock data response.
func RecordFallback(operation, reason string) {
	FallbacksTotal.WithLabelValues(operation, reason).Inc()
}

// RecordRateLimited records a rejected call.
func RecordRateLimited(operation string) {
	RateLimitedTotal.WithLabelValues(operation).Inc()
}

// RecordSummary records a summarization outcome.
func RecordSummary(result string) {
	SummariesTotal.WithLabelValues(result).Inc()
}

// RecordRelayPublish records one relay delivery.
func RecordRelayPublish(publisher, status string) {
	RelayPublishedTotal.WithLabelValues(publisher, status).Inc()
}
