// Package metrics provides Prometheus metrics for the charcache service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the sync pipeline, the store
// and the HTTP API.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Sync pipeline
	syncRuns         prometheus.Counter
	syncStops        *prometheus.CounterVec
	pagesFetched     prometheus.Counter
	recordsUpserted  prometheus.Counter
	pageFetchLatency prometheus.Histogram
	lastSyncUnix     prometheus.Gauge

	// Store
	upsertLatency *prometheus.HistogramVec
	queryLatency  *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
	storedRecords prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "charcache",
		subsystem:        "",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.syncRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_runs_total",
		Help:      "Total number of sync passes started",
	})

	m.syncStops = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_stops_total",
		Help:      "Sync passes ended, by stop reason",
	}, []string{"reason"})

	m.pagesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pages_fetched_total",
		Help:      "Remote pages fetched and committed",
	})

	m.recordsUpserted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_upserted_total",
		Help:      "Characters written to the store",
	})

	m.pageFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "page_fetch_latency_milliseconds",
		Help:      "Latency of a single remote page request",
		Buckets:   m.histogramBuckets,
	})

	m.lastSyncUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_sync_completed_unix",
		Help:      "Unix time of the last sync pass that ran to exhaustion",
	})

	m.upsertLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_upsert_latency_milliseconds",
		Help:      "Latency of one batch upsert transaction",
		Buckets:   m.histogramBuckets,
	}, []string{"result"})

	m.queryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_milliseconds",
		Help:      "Latency of store read operations",
		Buckets:   m.histogramBuckets,
	}, []string{"op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Store operation failures, by operation",
	}, []string{"op"})

	m.storedRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_records",
		Help:      "Characters currently held in the store",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordSyncStarted increments the sync runs counter.
func RecordSyncStarted() {
	if globalManager.enabled {
		globalManager.syncRuns.Inc()
	}
}

// RecordSyncStop counts a finished pass under its stop reason.
func RecordSyncStop(reason string) {
	if globalManager.enabled {
		globalManager.syncStops.WithLabelValues(reason).Inc()
	}
}

// RecordSyncCompleted stamps the time of a pass that reached the end of the collection.
func RecordSyncCompleted(at time.Time) {
	if globalManager.enabled {
		globalManager.lastSyncUnix.Set(float64(at.Unix()))
	}
}

// RecordPageFetched increments the committed pages counter.
func RecordPageFetched() {
	if globalManager.enabled {
		globalManager.pagesFetched.Inc()
	}
}

// RecordRecordsUpserted adds n to the written records counter.
func RecordRecordsUpserted(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.recordsUpserted.Add(float64(n))
	}
}

// RecordPageFetchLatency records one page request latency in milliseconds.
func RecordPageFetchLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.pageFetchLatency.Observe(latencyMs)
	}
}

// RecordUpsertLatency records one upsert transaction latency in milliseconds.
func RecordUpsertLatency(result string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.upsertLatency.WithLabelValues(result).Observe(latencyMs)
	}
}

// RecordQueryLatency records a store read latency in milliseconds.
func RecordQueryLatency(op string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.queryLatency.WithLabelValues(op).Observe(latencyMs)
	}
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	if globalManager.enabled {
		globalManager.storeErrors.WithLabelValues(op).Inc()
	}
}

// UpdateStoredRecords sets the stored characters gauge.
func UpdateStoredRecords(count int64) {
	if globalManager.enabled {
		globalManager.storedRecords.Set(float64(count))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
