package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the planner
type Registry struct {
	// Search Metrics
	SearchesTotal       *prometheus.CounterVec
	SearchDuration      *prometheus.HistogramVec
	StatesExplored      *prometheus.HistogramVec
	StatesPruned        *prometheus.CounterVec
	SearchesTruncated   *prometheus.CounterVec
	BestScore           *prometheus.GaugeVec
	PeakFrontier        prometheus.Gauge
	DecompositionSplits prometheus.Counter

	// Distance Oracle Metrics
	OracleSources prometheus.Gauge
	OracleHits    prometheus.Gauge
	OracleMisses  prometheus.Gauge

	// Loader Metrics
	GraphsLoadedTotal *prometheus.CounterVec
	GraphNodes        prometheus.Gauge
	GraphUsefulNodes  prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}
