package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initSearchMetrics()
	r.initOracleMetrics()
	r.initLoaderMetrics()

	return r
}

// SearchSample summarises one solve for RecordSearch
type SearchSample struct {
	Strategy     string
	Status       string
	Duration     time.Duration
	Explored     int
	Pruned       int
	PeakFrontier int
	Splits       int
	Score        int
	Truncated    bool
}

// RecordSearch records a finished solve
func (r *Registry) RecordSearch(s SearchSample) {
	r.SearchesTotal.WithLabelValues(s.Strategy, s.Status).Inc()
	r.SearchDuration.WithLabelValues(s.Strategy).Observe(s.Duration.Seconds())
	r.StatesExplored.WithLabelValues(s.Strategy).Observe(float64(s.Explored))
	r.StatesPruned.WithLabelValues(s.Strategy).Add(float64(s.Pruned))
	r.BestScore.WithLabelValues(s.Strategy).Set(float64(s.Score))
	r.PeakFrontier.Set(float64(s.PeakFrontier))
	r.DecompositionSplits.Add(float64(s.Splits))

	if s.Truncated {
		r.SearchesTruncated.WithLabelValues(s.Strategy).Inc()
	}
}

// UpdateOracle mirrors distance oracle cache counters
func (r *Registry) UpdateOracle(sources int, hits, misses int64) {
	r.OracleSources.Set(float64(sources))
	r.OracleHits.Set(float64(hits))
	r.OracleMisses.Set(float64(misses))
}

// RecordGraphLoad records a loaded graph description
func (r *Registry) RecordGraphLoad(format, status string, nodes, useful int) {
	r.GraphsLoadedTotal.WithLabelValues(format, status).Inc()
	if status != "success" {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphUsefulNodes.Set(float64(useful))
}

// WriteText writes every metric in the Prometheus text exposition format
func (r *Registry) WriteText(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
