// Package metrics provides Prometheus metrics for the analytics service.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Engine metrics
	computations        *prometheus.CounterVec
	computationDuration *prometheus.HistogramVec
	degenerateResults   *prometheus.CounterVec

	// Batch metrics
	leaguesSubmitted   *prometheus.CounterVec
	jobsCompleted      *prometheus.CounterVec
	jobsFailed         *prometheus.CounterVec
	reportsStored      prometheus.Gauge
	reportsEvicted     prometheus.Counter
	reportQueryLatency prometheus.Histogram

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerJobsPerSecond     prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kickbase",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.computations = auto.NewCounterVec(m.counterOpts("computations_total",
		"Analytics computations by engine"), []string{"engine"})
	m.computationDuration = auto.NewHistogramVec(m.histogramOpts("computation_duration_milliseconds",
		"Analytics computation duration by engine"), []string{"engine"})
	m.degenerateResults = auto.NewCounterVec(m.counterOpts("degenerate_results_total",
		"Computations that returned a neutral result for insufficient input"), []string{"engine"})

	m.leaguesSubmitted = auto.NewCounterVec(m.counterOpts("leagues_submitted_total",
		"League snapshots submitted, by outcome"), []string{"outcome"})
	m.jobsCompleted = auto.NewCounterVec(m.counterOpts("jobs_completed_total",
		"Cohort jobs completed by kind"), []string{"kind"})
	m.jobsFailed = auto.NewCounterVec(m.counterOpts("jobs_failed_total",
		"Cohort jobs failed by kind"), []string{"kind"})
	m.reportsStored = auto.NewGauge(m.gaugeOpts("reports_stored",
		"League reports currently held"))
	m.reportsEvicted = auto.NewCounter(m.counterOpts("reports_evicted_total",
		"League reports evicted to respect the store bound"))
	m.reportQueryLatency = auto.NewHistogram(m.histogramOpts("report_query_latency_milliseconds",
		"Report store lookup latency"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum jobs the queue holds"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue size over capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total", "Jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Jobs rejected by the queue"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Running workers"))
	m.workerJobsPerSecond = auto.NewGauge(m.gaugeOpts("worker_jobs_per_second", "Jobs processed per second"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Time from dequeue to stored result"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Jobs a worker failed to process"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total",
		"Errors by component and type"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordComputation counts one engine run and its duration.
func RecordComputation(engine string, durationMs float64) {
	globalManager.computations.WithLabelValues(engine).Inc()
	globalManager.computationDuration.WithLabelValues(engine).Observe(durationMs)
}

// RecordDegenerateResult counts a neutral result returned for too little input.
func RecordDegenerateResult(engine string) {
	globalManager.degenerateResults.WithLabelValues(engine).Inc()
}

// RecordLeagueSubmitted counts a league submission: accepted, duplicate or rejected.
func RecordLeagueSubmitted(outcome string) {
	globalManager.leaguesSubmitted.WithLabelValues(outcome).Inc()
}

// RecordJobCompleted counts a finished cohort job.
func RecordJobCompleted(kind string) {
	globalManager.jobsCompleted.WithLabelValues(kind).Inc()
}

// RecordJobFailed counts a failed cohort job.
func RecordJobFailed(kind string) {
	globalManager.jobsFailed.WithLabelValues(kind).Inc()
}

// UpdateReportsStored sets the number of reports held.
func UpdateReportsStored(n int) {
	globalManager.reportsStored.Set(float64(n))
}

// RecordReportEvicted counts an evicted report.
func RecordReportEvicted() {
	globalManager.reportsEvicted.Inc()
}

// RecordReportQueryLatency records a report lookup latency in milliseconds.
func RecordReportQueryLatency(latencyMs float64) {
	globalManager.reportQueryLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets queue size over capacity.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerJobsPerSecond sets the recent processing rate.
func UpdateWorkerJobsPerSecond(rate float64) {
	globalManager.workerJobsPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records one job's processing time in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a job a worker could not process.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error raised by a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMetrics samples heap usage and goroutine count.
func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapInuse))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
