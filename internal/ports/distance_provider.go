package ports

import (
	"context"
	"waste-sim-service/internal/domain"
)

// Distance and travel duration between two sites.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between sites.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two sites.
	GetDistance(ctx context.Context, origin domain.Site, destination domain.Site) (DistanceResult, error)
}
