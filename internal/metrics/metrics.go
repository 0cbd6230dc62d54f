package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the flight core
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Provider Metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CacheWriteFailures *prometheus.CounterVec

	// Business Metrics
	FallbacksTotal      *prometheus.CounterVec
	MonitorChecksTotal  *prometheus.CounterVec
	StatusChangesTotal  *prometheus.CounterVec
	MonitoredFlights    prometheus.Gauge
	AirportLookupsTotal *prometheus.CounterVec
	PositionsEstimated  prometheus.Counter
}

// NewMetricsRegistry registers every metric with the default registerer.
// It must be called once per process.
func NewMetricsRegistry() *MetricsRegistry {
	return NewMetricsRegistryWith(prometheus.DefaultRegisterer)
}

// NewMetricsRegistryWith registers against reg; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistryWith(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skypulse_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skypulse_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed by method",
			},
			[]string{"method"},
		),

		// Provider Metrics
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_provider_requests_total",
				Help: "Outbound provider calls by provider, endpoint and outcome",
			},
			[]string{"provider", "endpoint", "outcome"},
		),
		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skypulse_provider_request_duration_seconds",
				Help:    "Outbound provider call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider", "endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_cache_hits_total",
				Help: "Total cache hits by cache layer",
			},
			[]string{"layer"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_cache_misses_total",
				Help: "Total cache misses by cache layer",
			},
			[]string{"layer"},
		),
		CacheWriteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_cache_write_failures_total",
				Help: "Cache store writes that failed and were dropped",
			},
			[]string{"entity"},
		),

		// Business Metrics
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_fallbacks_total",
				Help: "Requests answered from a fallback source instead of the provider",
			},
			[]string{"source", "reason"},
		),
		MonitorChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_monitor_checks_total",
				Help: "Status monitor checks by outcome",
			},
			[]string{"outcome"},
		),
		StatusChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_status_changes_total",
				Help: "Observed flight status transitions by new status",
			},
			[]string{"new_status"},
		),
		MonitoredFlights: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "skypulse_monitored_flights",
				Help: "Current number of flights tracked by the status monitor",
			},
		),
		AirportLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_airport_lookups_total",
				Help: "Airport coordinate resolutions by result",
			},
			[]string{"result"},
		),
		PositionsEstimated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skypulse_positions_estimated_total",
				Help: "Positions synthesized from the great-circle estimate",
			},
		),
	}
}

// NewNopRegistry is for tests and tools that do not expose /metrics.
func NewNopRegistry() *MetricsRegistry {
	return NewMetricsRegistryWith(prometheus.NewRegistry())
}
