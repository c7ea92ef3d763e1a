package ports

import (
	"context"
	"time"
	"waste-sim-service/internal/domain"
)

// RoutePlanner orders a set of stops for one truck.
// The ordering must be deterministic and contain each stop exactly once.
// It is not required to be optimal.
type RoutePlanner interface {
	PlanRoute(ctx context.Context, truckID string, departAt time.Time, start domain.Site, stops []domain.Site) (*domain.RoutePlan, error)
}
