package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	dbQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"db", "operation"},
	)

	dbQueryTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stateindexor_db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"db", "operation"},
	)

	dbErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_db_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"db", "error_type"},
	)

	// Indexing metrics
	IndexedHeight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stateindexor_indexed_height",
			Help: "The last height committed, per consumer",
		},
		[]string{"consumer"},
	)

	UpstreamTip = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stateindexor_upstream_tip_height",
			Help: "The upstream store's indexed height as of the last catch-up",
		},
	)

	BlocksProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stateindexor_blocks_processed_total",
			Help: "Total number of blocks committed",
		},
	)

	KeysWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_keys_written_total",
			Help: "Total number of primary store mutations",
		},
		[]string{"op"},
	)

	BlockProcessingTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stateindexor_block_processing_duration_seconds",
			Help:    "Time taken to process and commit one block",
			Buckets: prometheus.DefBuckets,
		},
	)

	ConsumerProcessingTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stateindexor_consumer_duration_seconds",
			Help:    "Time each consumer spends on one block",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"consumer"},
	)

	// Upstream metrics
	CatchUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_upstream_catchups_total",
			Help: "Total number of secondary handle refreshes by result",
		},
		[]string{"result"},
	)

	CatchUpTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stateindexor_upstream_catchup_duration_seconds",
			Help:    "Duration of secondary handle refreshes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Undo log metrics
	UndoRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stateindexor_undo_records_total",
			Help: "Total number of undo records written",
		},
	)

	UndoOldestHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stateindexor_undo_oldest_height",
			Help: "Oldest height still held in the undo log",
		},
	)

	Rollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stateindexor_rollbacks_total",
			Help: "Total number of rollbacks applied",
		},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stateindexor_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_errors_total",
			Help: "Total number of errors by component and severity",
		},
		[]string{"component", "severity"},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stateindexor_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stateindexor_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stateindexor_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func DBQueryInc(db string, operation string) {
	dbQueries.WithLabelValues(db, operation).Inc()
}

func DBQueryDuration(db string, operation string, duration time.Duration) {
	dbQueryTime.WithLabelValues(db, operation).Observe(duration.Seconds())
}

func DBErrorsInc(db string, errorType string) {
	dbErrors.WithLabelValues(db, errorType).Inc()
}

func BlockProcessingTimeLog(duration time.Duration) {
	BlockProcessingTime.Observe(duration.Seconds())
}

func ConsumerProcessingTimeLog(consumer string, duration time.Duration) {
	ConsumerProcessingTime.WithLabelValues(consumer).Observe(duration.Seconds())
}

func IndexedHeightSet(consumer string, height uint64) {
	IndexedHeight.WithLabelValues(consumer).Set(float64(height))
}

func UpstreamTipSet(height uint64) {
	UpstreamTip.Set(float64(height))
}

func BlocksProcessedInc() {
	BlocksProcessed.Inc()
}

func KeysWrittenInc(op string, count int) {
	KeysWritten.WithLabelValues(op).Add(float64(count))
}

func CatchUpLog(success bool, duration time.Duration) {
	result := "ok"
	if !success {
		result = "error"
	}
	CatchUps.WithLabelValues(result).Inc()
	CatchUpTime.Observe(duration.Seconds())
}

func UndoRecordsInc(count int) {
	UndoRecords.Add(float64(count))
}

func UndoOldestHeightSet(height uint64) {
	UndoOldestHeight.Set(float64(height))
}

func RollbacksInc() {
	Rollbacks.Inc()
}

func ErrorsInc(component string, severity string) {
	Errors.WithLabelValues(component, severity).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	ComponentHealth.WithLabelValues(component).Set(boolAsFloat)
}

// UpdateSystemMetrics updates runtime system metrics.
// This should be called periodically (e.g., every 15 seconds).
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
