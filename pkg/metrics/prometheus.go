// Package metrics provides Prometheus metrics for the rigscore engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	entitiesScored      prometheus.Counter
	benchmarkMisses     *prometheus.CounterVec
	scoringLatency      prometheus.Histogram
	scoringPassDuration prometheus.Histogram
	scoringPasses       prometheus.Counter

	// Engines
	contextsComputed  prometheus.Counter
	analysesGenerated prometheus.Counter
	buySignals        *prometheus.CounterVec
	memoHits          prometheus.Counter
	memoMisses        prometheus.Counter

	// Catalog
	catalogEntities prometheus.Gauge
	catalogLoads    prometheus.Counter

	// Score index
	indexRecords       prometheus.Gauge
	indexUpdateLatency prometheus.Histogram
	indexQueryLatency  prometheus.Histogram

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker pool
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rigscore",
		subsystem:        "engine",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
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
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, labels)
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.entitiesScored = m.counter("entities_scored_total", "Total number of entity profiles computed")
	m.benchmarkMisses = m.counterVec("benchmark_misses_total",
		"Benchmark lookups that resolved to the zero sentinel, by table", "table")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Per-entity scoring latency in milliseconds")
	m.scoringPassDuration = m.histogram("scoring_pass_duration_milliseconds",
		"Duration of a full catalog scoring pass in milliseconds")
	m.scoringPasses = m.counter("scoring_passes_total", "Total number of completed scoring passes")

	m.contextsComputed = m.counter("contexts_computed_total", "Percentile contexts computed (memo misses included)")
	m.analysesGenerated = m.counter("analyses_generated_total", "Total number of analyses generated")
	m.buySignals = m.counterVec("buy_signals_total", "Buy-signal decisions by signal and rule", "signal", "rule")
	m.memoHits = m.counter("memo_hits_total", "Context memo cache hits")
	m.memoMisses = m.counter("memo_misses_total", "Context memo cache misses")

	m.catalogEntities = m.gauge("catalog_entities", "Number of entities in the active catalog snapshot")
	m.catalogLoads = m.counter("catalog_loads_total", "Total number of catalog snapshots activated")

	m.indexRecords = m.gauge("index_records", "Number of entities held by the score index")
	m.indexUpdateLatency = m.histogram("index_update_latency_milliseconds", "Score index upsert latency in milliseconds")
	m.indexQueryLatency = m.histogram("index_query_latency_milliseconds", "Score index query latency in milliseconds")

	m.queueSize = m.gauge("queue_size", "Current number of scoring jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum capacity of the scoring job queue")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (0.0 to 1.0)")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Total number of jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds",
		"Time a job spent in the queue in milliseconds")

	m.workerCount = m.gauge("worker_count", "Configured number of scoring workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers currently scoring")
	m.workerIdleCount = m.gauge("worker_idle_count", "Number of idle workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Worker job processing latency in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Total number of failed scoring jobs")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status",
		"endpoint", "method", "status")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")
}

// RecordEntityScored increments the scored entities counter.
func RecordEntityScored() {
	globalManager.entitiesScored.Inc()
}

// RecordBenchmarkMiss counts a lookup miss against the named table.
func RecordBenchmarkMiss(table string) {
	globalManager.benchmarkMisses.WithLabelValues(table).Inc()
}

// RecordScoringLatency records per-entity scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringPass records a completed pass and its duration in milliseconds.
func RecordScoringPass(durationMs float64) {
	globalManager.scoringPasses.Inc()
	globalManager.scoringPassDuration.Observe(durationMs)
}

// RecordContextComputed increments the computed contexts counter.
func RecordContextComputed() {
	globalManager.contextsComputed.Inc()
}

// RecordAnalysisGenerated increments the analyses counter.
func RecordAnalysisGenerated() {
	globalManager.analysesGenerated.Inc()
}

// RecordBuySignal counts a decision by signal and rule.
func RecordBuySignal(signal, rule string) {
	globalManager.buySignals.WithLabelValues(signal, rule).Inc()
}

// RecordMemoHit increments the memo hit counter.
func RecordMemoHit() {
	globalManager.memoHits.Inc()
}

// RecordMemoMiss increments the memo miss counter.
func RecordMemoMiss() {
	globalManager.memoMisses.Inc()
}

// UpdateCatalogEntities sets the active catalog size and counts the activation.
func UpdateCatalogEntities(count int) {
	globalManager.catalogEntities.Set(float64(count))
	globalManager.catalogLoads.Inc()
}

// Score Index Metrics Functions.

// UpdateIndexRecords sets the number of indexed entities.
func UpdateIndexRecords(count int) {
	globalManager.indexRecords.Set(float64(count))
}

// RecordIndexUpdateLatency records score index upsert latency.
func RecordIndexUpdateLatency(latencyMs float64) {
	globalManager.indexUpdateLatency.Observe(latencyMs)
}

// RecordIndexQueryLatency records score index query latency.
func RecordIndexQueryLatency(latencyMs float64) {
	globalManager.indexQueryLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records how long a job waited in the queue.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP metrics

// RecordHTTPRequest counts one served request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
