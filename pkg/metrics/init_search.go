package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSearchMetrics() {
	r.SearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_searches_total",
			Help: "Total number of solves run",
		},
		[]string{"strategy", "status"},
	)

	r.SearchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_search_duration_seconds",
			Help:    "Solve duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"strategy"},
	)

	r.StatesExplored = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_states_explored",
			Help:    "Number of search states explored per solve",
			Buckets: prometheus.ExponentialBuckets(10, 10, 8),
		},
		[]string{"strategy"},
	)

	r.StatesPruned = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_states_pruned_total",
			Help: "Total number of successor states dropped as dominated",
		},
		[]string{"strategy"},
	)

	r.SearchesTruncated = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_searches_truncated_total",
			Help: "Total number of solves stopped by the state ceiling",
		},
		[]string{"strategy"},
	)

	r.BestScore = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "planner_best_score",
			Help: "Best score of the most recent solve",
		},
		[]string{"strategy"},
	)

	r.PeakFrontier = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_peak_frontier",
			Help: "Largest frontier seen by the most recent solve",
		},
	)

	r.DecompositionSplits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "planner_decomposition_splits_total",
			Help: "Total number of node-set splits evaluated by the two-agent decomposer",
		},
	)
}
