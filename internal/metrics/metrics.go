package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Prashikshan
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Hub Metrics
	WSConnectedClients prometheus.Gauge
	WSLiveSessions     prometheus.Gauge
	WSEventsTotal      prometheus.CounterVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Business Metrics
	TrainingsCreatedTotal      prometheus.CounterVec
	RegistrationsTotal         prometheus.Counter
	RegistrationsRejectedTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prashikshan_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prashikshan_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "prashikshan_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Hub Metrics
		WSConnectedClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "prashikshan_ws_connected_clients",
				Help: "Current number of authenticated websocket clients",
			},
		),
		WSLiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "prashikshan_ws_live_sessions",
				Help: "Current number of live training session rooms",
			},
		),
		WSEventsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prashikshan_ws_events_total",
				Help: "Total websocket events fanned out by event name",
			},
			[]string{"event"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prashikshan_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prashikshan_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		TrainingsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prashikshan_trainings_created_total",
				Help: "Total trainings created by approval status",
			},
			[]string{"approval_status"},
		),
		RegistrationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "prashikshan_registrations_total",
				Help: "Total successful training registrations",
			},
		),
		RegistrationsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prashikshan_registrations_rejected_total",
				Help: "Total rejected registration attempts by reason",
			},
			[]string{"reason"},
		),
	}
}
