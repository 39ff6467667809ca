package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeStatus  = "status_error"
	OutcomeTimeout = "timeout"
	OutcomeError   = "transport_error"
)

// upstreamLatencyBuckets are in milliseconds; quote lookups range from tens
// of milliseconds to several seconds.
var upstreamLatencyBuckets = []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // bucket layout

// Manager owns the gateway's Prometheus collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Upstream provider
	upstreamCalls    *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamInFlight prometheus.Gauge
	upstreamStatus   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics

// customRegistry keeps the default Go collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "flightgate",
		subsystem:        "gateway",
		histogramBuckets: upstreamLatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Requests answered with the failure sentinel, by endpoint",
		},
		[]string{"endpoint", "error_type"},
	)

	m.upstreamCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_calls_total",
			Help:      "Outbound quote requests by trip kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	m.upstreamLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_latency_milliseconds",
			Help:      "Outbound quote request latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"kind", "outcome"},
	)

	m.upstreamInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_in_flight",
		Help:      "Outbound quote requests currently waiting on the provider",
	})

	m.upstreamStatus = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_status_total",
			Help:      "Non-success upstream responses by HTTP status code",
		},
		[]string{"status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts a failure answered on endpoint.
func RecordErrorByEndpoint(endpoint, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, errorType).Inc()
}

// RecordUpstreamCall counts one outbound call and its latency.
func RecordUpstreamCall(kind, outcome string, latencyMs float64) {
	globalManager.upstreamCalls.WithLabelValues(kind, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(kind, outcome).Observe(latencyMs)
}

// RecordUpstreamStatus counts a non-2xx upstream status.
func RecordUpstreamStatus(code int) {
	globalManager.upstreamStatus.WithLabelValues(fmt.Sprintf("%d", code)).Inc()
}

// UpstreamStarted marks an outbound call in flight. Call the returned func
// when the call completes.
func UpstreamStarted() func() {
	globalManager.upstreamInFlight.Inc()
	return globalManager.upstreamInFlight.Dec
}

// UpdateSystemMemoryUsage sets the allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Families returns the names of all gathered metric families.
func Families() ([]string, error) {
	mfs, err := customRegistry.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGather, err)
	}
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	return names, nil
}
