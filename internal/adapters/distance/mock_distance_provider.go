package distance

import (
	"context"
	"fmt"
	"sync/atomic"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// MockPair is one table entry. A pair also answers the reverse direction
// unless that direction has its own entry.
type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider answers from a fixed table keyed by site IDs and
// counts lookups so tests can assert how often routing was consulted.
type MockDistanceProvider struct {
	legs  map[[2]string]ports.DistanceResult
	calls atomic.Int64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	legs := make(map[[2]string]ports.DistanceResult, 2*len(pairs))
	for _, p := range pairs {
		legs[[2]string{p.From, p.To}] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	for _, p := range pairs {
		rev := [2]string{p.To, p.From}
		if _, ok := legs[rev]; !ok {
			legs[rev] = legs[[2]string{p.From, p.To}]
		}
	}
	return &MockDistanceProvider{legs: legs}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Site) (ports.DistanceResult, error) {
	p.calls.Add(1)
	if origin.ID == destination.ID {
		return ports.DistanceResult{}, nil
	}

	r, ok := p.legs[[2]string{origin.ID, destination.ID}]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin.ID, destination.ID)
	}
	return r, nil
}

// Calls reports how many lookups were made.
func (p *MockDistanceProvider) Calls() int64 { return p.calls.Load() }

var _ ports.DistanceProvider = (*MockDistanceProvider)(nil)
