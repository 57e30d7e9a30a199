// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the framework.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabular_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tabular_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// HandlerExecutions counts actual handler invocations by table and
	// operation. A cache-configured endpoint advances this only on
	// misses, so the counter exposes the miss rate against RequestsTotal.
	HandlerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabular_handler_executions_total",
			Help: "Handler invocations",
		},
		[]string{"table", "op"},
	)

	// CacheEvents counts response-cache lookups by result (hit/miss).
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabular_cache_events_total",
			Help: "Response cache lookups",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		HandlerExecutions,
		CacheEvents,
	)
}
