// Package metrics provides Prometheus metrics for blogly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogly",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blogly",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// WriteErrorsTotal counts failed resource writes by resource and reason.
	WriteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogly",
			Name:      "write_errors_total",
			Help:      "Total number of rejected or failed writes",
		},
		[]string{"resource", "reason"},
	)
)

func RecordRequest(method, route, status string, seconds float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordWriteError(resource, reason string) {
	WriteErrorsTotal.WithLabelValues(resource, reason).Inc()
}
