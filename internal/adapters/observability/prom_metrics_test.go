package observability

import (
	"testing"
	"waste-sim-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromObsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPromObs(reg)

	obs.IncCounter(ports.MetricReadings, 50)
	if got := testutil.ToFloat64(obs.counters[ports.MetricReadings]); got != 50 {
		t.Fatalf("expected readings counter 50, got %f", got)
	}

	obs.IncCounter(ports.MetricTicksSkipped, 1)
	if got := testutil.ToFloat64(obs.counters[ports.MetricTicksSkipped]); got != 1 {
		t.Fatalf("expected skipped counter 1, got %f", got)
	}

	obs.SetGauge(ports.MetricAvgFill, 42.5)
	if got := testutil.ToFloat64(obs.gauges[ports.MetricAvgFill]); got != 42.5 {
		t.Fatalf("expected avg fill gauge 42.5, got %f", got)
	}

	obs.ObserveLatency(ports.MetricTickDuration, 0.002)
	hCollector := obs.histos[ports.MetricTickDuration].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected tick histogram to record 1 sample, got %d", samples)
	}

	// Unknown names are ignored rather than panicking.
	obs.IncCounter("does_not_exist", 1)
	obs.SetGauge("does_not_exist", 1)

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 registered metrics, got %d", n)
	}
}
