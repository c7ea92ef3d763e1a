package ports

// Observability records engine metrics. Unknown metric names are ignored.
type Observability interface {
	IncCounter(name string, v float64)
	SetGauge(name string, v float64)
	ObserveLatency(name string, seconds float64)
}

// Metric names emitted by the engine.
const (
	MetricTicks           = "waste_ticks_total"
	MetricTicksSkipped    = "waste_ticks_skipped_total"
	MetricReadings        = "waste_readings_emitted_total"
	MetricCollections     = "waste_collections_total"
	MetricPublishFailures = "waste_publish_failures_total"
	MetricCriticalBins    = "waste_bins_critical"
	MetricAvgFill         = "waste_fill_level_avg_percent"
	MetricTickDuration    = "waste_tick_duration_seconds"
)
