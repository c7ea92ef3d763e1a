package observability

import "waste-sim-service/internal/ports"

// Noop discards all metrics.
type Noop struct{}

func (Noop) IncCounter(string, float64)     {}
func (Noop) SetGauge(string, float64)       {}
func (Noop) ObserveLatency(string, float64) {}

var _ ports.Observability = Noop{}
