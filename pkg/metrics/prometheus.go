// Package metrics provides Prometheus metrics for the Pragati analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds, tuned for in-memory analyses and
// network round-trips to the embedding and analyzer services.
var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // constant bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Business metrics
	submissions       *prometheus.CounterVec
	updatesIngested   prometheus.Counter
	analysisRuns      *prometheus.CounterVec
	analysisLatency   *prometheus.HistogramVec
	analysisErrors    *prometheus.CounterVec
	membersRanked     prometheus.Gauge
	stalledPeriods    prometheus.Counter
	repeatedKeywords  prometheus.Counter
	normalizeFailures *prometheus.CounterVec

	// External services
	embeddingRequests *prometheus.CounterVec
	embeddingLatency  prometheus.Histogram
	embeddingCache    *prometheus.CounterVec
	analyzerRequests  *prometheus.CounterVec
	analyzerLatency   prometheus.Histogram

	// Queue and workers
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	queueEnqueue      prometheus.Counter
	queueDequeue      prometheus.Counter
	queueEnqueueError *prometheus.CounterVec
	workerCount       prometheus.Gauge
	workerLatency     prometheus.Histogram
	workerErrors      *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pragati",
		subsystem:        "analysis",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	m.submissions = m.counterVec("submissions_total", "Update submissions by outcome (accepted, duplicate, rejected)", "status")
	m.updatesIngested = m.counter("updates_ingested_total", "Updates analyzed and written to the store")
	m.analysisRuns = m.counterVec("runs_total", "Analysis invocations by kind", "analysis")
	m.analysisLatency = m.histogramVec("latency_milliseconds", "Analysis latency in milliseconds by kind", "analysis")
	m.analysisErrors = m.counterVec("errors_total", "Failed analysis invocations by kind", "analysis")
	m.membersRanked = m.gauge("members_ranked", "Members scored in the latest ratings run")
	m.stalledPeriods = m.counter("stalled_periods_total", "Stalled periods reported by the semantic detector")
	m.repeatedKeywords = m.counter("repeated_keywords_total", "Repeated keyword signals reported")
	m.normalizeFailures = m.counterVec("normalize_failures_total", "Structured fields that could not be decoded", "reason")

	m.embeddingRequests = m.counterVec("embedding_requests_total", "Embedding service calls by outcome", "outcome")
	m.embeddingLatency = m.histogram("embedding_latency_milliseconds", "Embedding service round-trip latency")
	m.embeddingCache = m.counterVec("embedding_cache_total", "Embedding cache lookups by result (hit, miss)", "result")
	m.analyzerRequests = m.counterVec("analyzer_requests_total", "LLM analyzer calls by outcome", "outcome")
	m.analyzerLatency = m.histogram("analyzer_latency_milliseconds", "LLM analyzer round-trip latency")

	m.queueSize = m.gauge("queue_size", "Current submission queue backlog")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum submission queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue backlog divided by capacity")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Submissions enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Submissions dequeued")
	m.queueEnqueueError = m.counterVec("queue_enqueue_errors_total", "Rejected enqueues by reason", "reason")
	m.workerCount = m.gauge("worker_count", "Ingestion workers running")
	m.workerLatency = m.histogram("worker_latency_milliseconds", "Time to analyze and store one submission")
	m.workerErrors = m.counterVec("worker_errors_total", "Ingestion failures by stage", "stage")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.httpErrors = m.counterVec("http_errors_total", "HTTP error responses by endpoint and type", "endpoint", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds")
}

// Business metrics.

// RecordSubmission counts an update submission by outcome.
func RecordSubmission(status string) { globalManager.submissions.WithLabelValues(status).Inc() }

// RecordUpdateIngested counts an update written to the store.
func RecordUpdateIngested() { globalManager.updatesIngested.Inc() }

// RecordAnalysis counts one analysis run and observes its latency.
func RecordAnalysis(analysis string, latencyMs float64) {
	globalManager.analysisRuns.WithLabelValues(analysis).Inc()
	globalManager.analysisLatency.WithLabelValues(analysis).Observe(latencyMs)
}

// RecordAnalysisError counts a failed analysis run.
func RecordAnalysisError(analysis string) { globalManager.analysisErrors.WithLabelValues(analysis).Inc() }

// UpdateMembersRanked sets the number of members in the latest ratings run.
func UpdateMembersRanked(n int) { globalManager.membersRanked.Set(float64(n)) }

// RecordStalledPeriods adds to the stalled period counter.
func RecordStalledPeriods(n int) { globalManager.stalledPeriods.Add(float64(n)) }

// RecordRepeatedKeywords adds to the repeated keyword counter.
func RecordRepeatedKeywords(n int) { globalManager.repeatedKeywords.Add(float64(n)) }

// RecordNormalizeFailure counts a structured field that fell back to empty.
func RecordNormalizeFailure(reason string) {
	globalManager.normalizeFailures.WithLabelValues(reason).Inc()
}

// External service metrics.

// RecordEmbeddingRequest counts an embedding call (ok, retry, failed).
func RecordEmbeddingRequest(outcome string, latencyMs float64) {
	globalManager.embeddingRequests.WithLabelValues(outcome).Inc()
	globalManager.embeddingLatency.Observe(latencyMs)
}

// RecordEmbeddingCache counts a cache lookup (hit or miss).
func RecordEmbeddingCache(result string) { globalManager.embeddingCache.WithLabelValues(result).Inc() }

// RecordAnalyzerRequest counts an LLM analyzer call.
func RecordAnalyzerRequest(outcome string, latencyMs float64) {
	globalManager.analyzerRequests.WithLabelValues(outcome).Inc()
	globalManager.analyzerLatency.Observe(latencyMs)
}

// Queue and worker metrics.

// UpdateQueueSize sets the current queue backlog.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueue.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeue.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueError.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of running ingestion workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records the time to process one submission.
func RecordWorkerProcessingLatency(latencyMs float64) { globalManager.workerLatency.Observe(latencyMs) }

// RecordWorkerError counts an ingestion failure at the given stage.
func RecordWorkerError(stage string) { globalManager.workerErrors.WithLabelValues(stage).Inc() }

// HTTP metrics.

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap bytes allocated.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
