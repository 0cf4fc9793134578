package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOracleMetrics() {
	r.OracleSources = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_oracle_cached_sources",
			Help: "Number of source nodes with a cached distance table",
		},
	)

	r.OracleHits = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_oracle_hits",
			Help: "Distance queries answered from cache",
		},
	)

	r.OracleMisses = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_oracle_misses",
			Help: "Distance queries that ran a breadth-first search",
		},
	)
}

func (r *Registry) initLoaderMetrics() {
	r.GraphsLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_graphs_loaded_total",
			Help: "Total number of graph descriptions loaded",
		},
		[]string{"format", "status"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_graph_nodes",
			Help: "Number of nodes in the most recently loaded graph",
		},
	)

	r.GraphUsefulNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_graph_useful_nodes",
			Help: "Number of positive-rate nodes in the most recently loaded graph",
		},
	)
}
