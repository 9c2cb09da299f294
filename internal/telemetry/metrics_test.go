package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRun("rank", "succeeded", 10*time.Millisecond)
	m.ObserveRun("rank", "succeeded", 20*time.Millisecond)
	m.ObserveRun("rank", "invalid_input", time.Millisecond)

	if got := testutil.ToFloat64(m.runs.WithLabelValues("rank", "succeeded")); got != 2 {
		t.Errorf("succeeded runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues("rank", "invalid_input")); got != 1 {
		t.Errorf("invalid_input runs = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.AddInputFailures("rank", 3)
	m.AddInputFailures("rank", 0)
	m.IncOutputs("rank")

	if got := testutil.ToFloat64(m.inputFailures.WithLabelValues("rank")); got != 3 {
		t.Errorf("input failures = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.outputs.WithLabelValues("rank")); got != 1 {
		t.Errorf("outputs = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	// не должно паниковать
	m.ObserveRun("rank", "failed", time.Second)
	m.AddInputFailures("rank", 1)
	m.IncOutputs("rank")
}
