// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts served requests.
	// Labels: route (mux pattern), method, status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goalpace_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds.
	// Labels: route (mux pattern)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goalpace_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"route"},
	)

	// ProgressEventsTotal counts appended ledger events.
	// Labels: kind (delta/complete)
	ProgressEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goalpace_progress_events_total",
			Help: "Total number of progress events recorded by kind",
		},
		[]string{"kind"},
	)

	// ProgressRejectedTotal counts appends refused before mutation.
	// Labels: reason (invalid_delta/negative/conflict)
	ProgressRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goalpace_progress_rejected_total",
			Help: "Total number of progress updates rejected by reason",
		},
		[]string{"reason"},
	)

	GoalsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goalpace_goals_created_total",
			Help: "Total number of goals created",
		},
	)

	GoalsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goalpace_goals_completed_total",
			Help: "Total number of goals that reached their target for the first time",
		},
	)

	// StatsComputeDuration observes how long a user's analytics take to build, loads included.
	StatsComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goalpace_stats_compute_duration_seconds",
			Help:    "Duration of user statistics computation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RecordRequest(route, method string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

func RecordProgress(complete bool) {
	kind := "delta"
	if complete {
		kind = "complete"
	}
	ProgressEventsTotal.WithLabelValues(kind).Inc()
}

func RecordRejected(reason string) {
	ProgressRejectedTotal.WithLabelValues(reason).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
