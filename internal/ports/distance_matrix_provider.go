package ports

import (
	"context"
	"waste-sim-service/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations, keyed by destination ID.
	GetDistances(ctx context.Context, origin domain.Site, destinations []domain.Site) (map[string]DistanceResult, error)
}
