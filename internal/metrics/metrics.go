// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts API requests by endpoint and outcome.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amortization_requests_total",
			Help: "API requests handled, by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// SchedulesComputed counts generated schedules by reduction policy.
	SchedulesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amortization_schedules_computed_total",
			Help: "Schedules generated, by reduction policy",
		},
		[]string{"policy"},
	)

	// CalculationErrors counts failed computations by error kind.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amortization_calculation_errors_total",
			Help: "Failed schedule computations, by error kind",
		},
		[]string{"error_type"},
	)

	// RequestDuration observes how long schedule requests take.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amortization_request_duration_seconds",
			Help:    "Time spent computing schedule requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)
