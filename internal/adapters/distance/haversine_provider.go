package distance

import (
	"context"
	"errors"
	"math"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// DefaultSpeedKmh is a typical average speed for a collection truck in city traffic.
const DefaultSpeedKmh = 25.0

// HaversineProvider implements DistanceMatrixProvider with straight-line
// great-circle distances and a constant average speed.
//
// It performs no I/O and is safe for concurrent use.
type HaversineProvider struct {
	speedKmh float64
}

func NewHaversineProvider(speedKmh float64) (*HaversineProvider, error) {
	if speedKmh < 0 || math.IsNaN(speedKmh) || math.IsInf(speedKmh, 0) {
		return nil, errors.New("haversine provider: speed must be a positive number")
	}
	if speedKmh == 0 {
		speedKmh = DefaultSpeedKmh
	}

	return &HaversineProvider{speedKmh: speedKmh}, nil
}

func (h *HaversineProvider) GetDistance(
	ctx context.Context,
	origin domain.Site,
	destination domain.Site,
) (ports.DistanceResult, error) {
	return h.measure(origin.Coordinates, destination.Coordinates), nil
}

// Compute distances from a single origin to many destinations.
func (h *HaversineProvider) GetDistances(
	ctx context.Context,
	origin domain.Site,
	destinations []domain.Site,
) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		if d.ID == "" {
			return nil, errors.New("haversine provider: destination id must be non-empty")
		}
		out[d.ID] = h.measure(origin.Coordinates, d.Coordinates)
	}

	return out, nil
}

func (h *HaversineProvider) measure(from, to domain.Coordinates) ports.DistanceResult {
	meters := from.DistanceTo(to)
	seconds := meters / (h.speedKmh * 1000 / 3600)

	// Round to whole units so results compare exactly across runs.
	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
	}
}

var _ ports.DistanceMatrixProvider = (*HaversineProvider)(nil)
