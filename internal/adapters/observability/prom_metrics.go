package observability

import (
	"waste-sim-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs builds the engine metrics and registers them with reg.
func NewPromObs(reg prometheus.Registerer) *PromObs {
	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricTicks,
		Help: "Simulation ticks committed.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricTicksSkipped,
		Help: "Simulation ticks skipped after a recoverable error.",
	})
	readings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricReadings,
		Help: "Bin readings appended to the history.",
	})
	collections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricCollections,
		Help: "Simulated bin collections.",
	})
	publishFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricPublishFailures,
		Help: "Snapshots that could not be published.",
	})
	critical := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ports.MetricCriticalBins,
		Help: "Bins above the collection threshold.",
	})
	avgFill := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ports.MetricAvgFill,
		Help: "Average fill level across all bins.",
	})
	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ports.MetricTickDuration,
		Help:    "Wall-clock time spent computing one tick.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	reg.MustRegister(ticks, skipped, readings, collections, publishFailures, critical, avgFill, tickDuration)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			ports.MetricTicks:           ticks,
			ports.MetricTicksSkipped:    skipped,
			ports.MetricReadings:        readings,
			ports.MetricCollections:     collections,
			ports.MetricPublishFailures: publishFailures,
		},
		gauges: map[string]prometheus.Gauge{
			ports.MetricCriticalBins: critical,
			ports.MetricAvgFill:      avgFill,
		},
		histos: map[string]prometheus.Observer{
			ports.MetricTickDuration: tickDuration,
		},
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

var _ ports.Observability = (*PromObs)(nil)

// Counter returns the registered counter for name, or nil.
func (p *PromObs) Counter(name string) prometheus.Counter { return p.counters[name] }

// Gauge returns the registered gauge for name, or nil.
func (p *PromObs) Gauge(name string) prometheus.Gauge { return p.gauges[name] }
