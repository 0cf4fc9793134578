package metrics

import (
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.SearchesTotal == nil {
		t.Error("SearchesTotal not initialized")
	}
	if r.StatesExplored == nil {
		t.Error("StatesExplored not initialized")
	}
	if r.OracleHits == nil {
		t.Error("OracleHits not initialized")
	}
	if r.GraphsLoadedTotal == nil {
		t.Error("GraphsLoadedTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestRecordSearch(t *testing.T) {
	r := NewRegistry()

	r.RecordSearch(SearchSample{
		Strategy: "single", Status: "success", Duration: 10 * time.Millisecond,
		Explored: 500, Pruned: 40, PeakFrontier: 12, Score: 1651,
	})
	r.RecordSearch(SearchSample{
		Strategy: "decompose", Status: "success", Duration: 20 * time.Millisecond,
		Explored: 900, Pruned: 60, Splits: 64, Score: 1707, Truncated: true,
	})

	var metric dto.Metric
	counter, err := r.SearchesTotal.GetMetricWithLabelValues("single", "success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("SearchesTotal = %v, want 1", metric.Counter.GetValue())
	}

	pruned, err := r.StatesPruned.GetMetricWithLabelValues("decompose")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := pruned.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 60 {
		t.Errorf("StatesPruned = %v, want 60", metric.Counter.GetValue())
	}

	score, err := r.BestScore.GetMetricWithLabelValues("single")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := score.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 1651 {
		t.Errorf("BestScore = %v, want 1651", metric.Gauge.GetValue())
	}

	if err := r.DecompositionSplits.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 64 {
		t.Errorf("DecompositionSplits = %v, want 64", metric.Counter.GetValue())
	}

	truncated, err := r.SearchesTruncated.GetMetricWithLabelValues("decompose")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := truncated.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("SearchesTruncated = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordGraphLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordGraphLoad("text", "success", 10, 6)
	r.RecordGraphLoad("yaml", "error", 0, 0)

	var metric dto.Metric
	if err := r.GraphUsefulNodes.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 6 {
		t.Errorf("GraphUsefulNodes = %v, want 6", metric.Gauge.GetValue())
	}

	failed, err := r.GraphsLoadedTotal.GetMetricWithLabelValues("yaml", "error")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := failed.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("GraphsLoadedTotal{yaml,error} = %v, want 1", metric.Counter.GetValue())
	}
}

func TestWriteText(t *testing.T) {
	r := NewRegistry()
	r.UpdateOracle(3, 10, 3)
	r.RecordSearch(SearchSample{Strategy: "single", Status: "success", Score: 42})

	var b strings.Builder
	if err := r.WriteText(&b); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	out := b.String()
	for _, want := range []string{
		"planner_oracle_hits 10",
		`planner_best_score{strategy="single"} 42`,
		"# TYPE planner_searches_total counter",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}
