package reorg

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reorgsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stateindexor_reorgs_detected_total",
			Help: "Total number of upstream reorganizations detected",
		},
	)

	reorgDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stateindexor_reorg_depth_blocks",
			Help:    "Depth of upstream reorganizations in blocks",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	reorgLastDetected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stateindexor_reorg_last_detected_timestamp",
			Help: "Unix timestamp of last reorg detection",
		},
	)

	reorgFromBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stateindexor_reorg_from_block",
			Help:    "Block heights where reorgs started",
			Buckets: []float64{0, 100000, 250000, 500000, 750000, 1000000},
		},
	)

	reorgChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stateindexor_reorg_checks_total",
			Help: "Total number of reorg checks by result",
		},
		[]string{"result"},
	)
)

func ReorgDetectedLog(depth, fromBlock uint64) {
	reorgsDetected.Inc()
	reorgDepth.Observe(float64(depth))
	reorgLastDetected.Set(float64(time.Now().UTC().Unix()))
	reorgFromBlock.Observe(float64(fromBlock))
}

func reorgCheckInc(result string) {
	reorgChecks.WithLabelValues(result).Inc()
}
