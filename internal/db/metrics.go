package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	maintenanceOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_maintenance_runs_total",
			Help: "Total number of maintenance operations by outcome",
		},
		[]string{"db", "status"},
	)

	maintenanceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stateindexor_maintenance_duration_seconds",
			Help:    "Duration of maintenance operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"db"},
	)

	maintenanceLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stateindexor_maintenance_last_run_timestamp",
			Help: "Unix timestamp of last maintenance run",
		},
		[]string{"db"},
	)

	maintenanceSpaceReclaimed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stateindexor_maintenance_space_reclaimed_bytes",
			Help: "Bytes reclaimed by last maintenance operation",
		},
		[]string{"db"},
	)

	walCheckpoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_wal_checkpoint_total",
			Help: "Total number of WAL checkpoint operations",
		},
		[]string{"db", "mode"},
	)

	dbSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stateindexor_db_size_bytes",
			Help: "Database file size in bytes, including WAL",
		},
		[]string{"db"},
	)
)

func maintenanceOutcome(db string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	maintenanceOutcomes.WithLabelValues(db, status).Inc()
	maintenanceDuration.WithLabelValues(db).Observe(duration.Seconds())
	maintenanceLastRun.WithLabelValues(db).Set(float64(time.Now().UTC().Unix()))
}

func spaceReclaimedLog(db string, bytes uint64) {
	maintenanceSpaceReclaimed.WithLabelValues(db).Set(float64(bytes))
}

func walCheckpointInc(db, mode string) {
	walCheckpoints.WithLabelValues(db, mode).Inc()
}

func dbSizeLog(db string, sizeBytes int64) {
	dbSize.WithLabelValues(db).Set(float64(sizeBytes))
}
