// Package metrics provides Prometheus metrics for the reefscout service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector exported by reefscout.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ingest pipeline
	recordsReceived  *prometheus.CounterVec
	recordsDuplicate *prometheus.CounterVec
	recordsStored    *prometheus.CounterVec
	ingestErrors     *prometheus.CounterVec
	dedupeSize       prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Record store
	storeQueryLatency *prometheus.HistogramVec
	storedRecords     *prometheus.GaugeVec

	// Engine
	engineComputations *prometheus.CounterVec
	engineLatency      *prometheus.HistogramVec
	teamsAggregated    prometheus.Histogram

	// Remote match-data client
	tbaRequests *prometheus.CounterVec
	tbaLatency  *prometheus.HistogramVec

	// Import
	importRows           *prometheus.CounterVec
	importUnknownHeaders prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global manager must exist before any recorder runs
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "reefscout",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// name applies the optional metric prefix.
func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	b := m.histogramBuckets

	m.recordsReceived = m.counterVec("records_received_total", "Scouting records submitted for ingest", "source")
	m.recordsDuplicate = m.counterVec("records_duplicate_total", "Scouting records rejected as duplicates", "source")
	m.recordsStored = m.counterVec("records_stored_total", "Scouting records written to the record store", "source")
	m.ingestErrors = m.counterVec("ingest_errors_total", "Ingest failures by stage", "stage")
	m.dedupeSize = m.gauge("dedupe_entries", "Fingerprints currently tracked by the ingest deduper")

	m.queueSize = m.gauge("queue_size", "Current number of submissions waiting in the ingest queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum ingest queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Ingest queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Submissions accepted by the ingest queue")
	m.queueDequeued = m.counter("queue_dequeued_total", "Submissions handed to workers")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Submissions rejected by the ingest queue")

	m.workerCount = m.gauge("worker_count", "Number of ingest workers")
	m.workerMessagesPerSecond = m.gauge("worker_messages_per_second", "Average submissions processed per second")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time to normalize and store one submission", b)
	m.workerErrors = m.counter("worker_errors_total", "Submissions the workers failed to store")

	m.storeQueryLatency = m.histogramVec("store_latency_milliseconds", "Record store operation latency", b, "backend", "op")
	m.storedRecords = m.gaugeVec("stored_records", "Records held by the record store", "source")

	m.engineComputations = m.counterVec("engine_computations_total", "Engine computations by operation", "op")
	m.engineLatency = m.histogramVec("engine_latency_milliseconds", "Engine computation latency", b, "op")
	m.teamsAggregated = m.histogram("teams_aggregated", "Teams aggregated per ranking request", []float64{1, 5, 10, 20, 40, 60, 80, 120})

	m.tbaRequests = m.counterVec("tba_requests_total", "Requests sent to The Blue Alliance", "endpoint", "status_code")
	m.tbaLatency = m.histogramVec("tba_latency_milliseconds", "The Blue Alliance request latency", b, "endpoint")

	m.importRows = m.counterVec("import_rows_total", "CSV rows imported", "source")
	m.importUnknownHeaders = m.counter("import_unknown_headers_total", "CSV headers that matched no known field")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", b, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors", b, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Enabled reports whether the global manager records anything.
func Enabled() bool { return globalManager.enabled }

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) { globalManager.enabled = enabled }

// RefreshInterval is how often background updaters should refresh gauges.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

// Ingest

// RecordRecordReceived counts a submitted scouting record.
func RecordRecordReceived(source string) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsReceived.WithLabelValues(source).Inc()
}

// RecordRecordDuplicate counts a submission rejected by the deduper.
func RecordRecordDuplicate(source string) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsDuplicate.WithLabelValues(source).Inc()
}

// RecordRecordsStored counts records written to the store.
func RecordRecordsStored(source string, n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsStored.WithLabelValues(source).Add(float64(n))
}

// RecordIngestError counts an ingest failure at the given stage.
func RecordIngestError(stage string) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestErrors.WithLabelValues(stage).Inc()
}

// UpdateDedupeSize sets the deduper entry count.
func UpdateDedupeSize(n int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.dedupeSize.Set(float64(n))
}

// Queue

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// Workers

// UpdateWorkerCount sets the number of ingest workers.
func UpdateWorkerCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the processing rate.
func UpdateWorkerMessagesPerSecond(rate float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency observes one submission's processing time.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if !globalManager.enabled {
		return
	}
	globalManager.workerErrors.Inc()
}

// Record store

// RecordStoreLatency observes a store operation.
func RecordStoreLatency(backend, op string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeQueryLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// UpdateStoredRecords sets the record count for a source.
func UpdateStoredRecords(source string, n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storedRecords.WithLabelValues(source).Set(float64(n))
}

// Engine

// RecordEngineComputation counts one engine operation and its latency.
func RecordEngineComputation(op string, started time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.engineComputations.WithLabelValues(op).Inc()
	globalManager.engineLatency.WithLabelValues(op).Observe(float64(time.Since(started).Microseconds()) / 1000)
}

// RecordTeamsAggregated observes how many teams one request aggregated.
func RecordTeamsAggregated(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.teamsAggregated.Observe(float64(n))
}

// Remote match-data client

// RecordTBARequest counts a request and observes its latency.
func RecordTBARequest(endpoint string, statusCode int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	globalManager.tbaRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.tbaLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// Import

// RecordImportRows counts imported CSV rows.
func RecordImportRows(source string, n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.importRows.WithLabelValues(source).Add(float64(n))
}

// RecordImportUnknownHeaders counts unrecognised CSV headers.
func RecordImportUnknownHeaders(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.importUnknownHeaders.Add(float64(n))
}

// HTTP

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that failed.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System

// UpdateSystemMemoryUsage sets heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry all reefscout collectors live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
