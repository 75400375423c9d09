// Package metrics exposes Prometheus collectors for the fetch pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchesTotal          *prometheus.CounterVec
	fetchRetriesTotal     prometheus.Counter
	cacheLookupsTotal     *prometheus.CounterVec
	escalationsTotal      *prometheus.CounterVec
	rateLimitDelaySeconds prometheus.Histogram
	fetchDurationSeconds  *prometheus.HistogramVec
	toolInvocationsTotal  *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loopnet_fetches_total",
				Help: "Total fetch calls, labeled by terminal outcome.",
			},
			[]string{"outcome"},
		)

		fetchRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loopnet_fetch_retries_total",
				Help: "Total retry attempts after a retryable failure.",
			},
		)

		cacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loopnet_cache_lookups_total",
				Help: "Cache lookups, labeled hit or miss.",
			},
			[]string{"result"},
		)

		escalationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loopnet_browser_escalations_total",
				Help: "Browser escalations triggered by challenge pages, labeled by result.",
			},
			[]string{"result"},
		)

		rateLimitDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loopnet_rate_limit_delay_seconds",
				Help:    "Histogram of rate limit wait durations.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loopnet_fetch_duration_seconds",
				Help:    "Histogram of end-to-end fetch latencies, labeled by path.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"path"},
		)

		toolInvocationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loopnet_tool_invocations_total",
				Help: "MCP tool invocations, labeled by tool and status.",
			},
			[]string{"tool", "status"},
		)
	})
}

// Handler returns an http.Handler exposing the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records a terminal fetch outcome ("success", "blocked",
// "rate_limited", "transport_error", "escalation_error").
func ObserveFetch(outcome string, duration time.Duration, escalated bool) {
	if fetchesTotal == nil {
		return
	}
	fetchesTotal.WithLabelValues(outcome).Inc()
	path := "primary"
	if escalated {
		path = "browser"
	}
	fetchDurationSeconds.WithLabelValues(path).Observe(duration.Seconds())
}

// ObserveRetry counts a retry attempt.
func ObserveRetry() {
	if fetchRetriesTotal == nil {
		return
	}
	fetchRetriesTotal.Inc()
}

// ObserveCacheLookup counts a cache hit or miss.
func ObserveCacheLookup(hit bool) {
	if cacheLookupsTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveEscalation counts a browser escalation result ("success", "failure").
func ObserveEscalation(result string) {
	if escalationsTotal == nil {
		return
	}
	escalationsTotal.WithLabelValues(result).Inc()
}

// ObserveRateLimitDelay records the duration of a rate limit wait.
func ObserveRateLimitDelay(duration time.Duration) {
	if rateLimitDelaySeconds == nil {
		return
	}
	rateLimitDelaySeconds.Observe(duration.Seconds())
}

// ObserveToolInvocation counts an MCP tool call ("ok" or "error").
func ObserveToolInvocation(tool, status string) {
	if toolInvocationsTotal == nil {
		return
	}
	toolInvocationsTotal.WithLabelValues(tool, status).Inc()
}
