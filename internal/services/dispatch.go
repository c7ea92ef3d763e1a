package services

import (
	"context"
	"fmt"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

type DispatchRequest struct {
	// Trucks are the idle trucks available for new routes.
	Trucks   []*domain.Truck
	Due      []domain.Site
	Depot    domain.Site
	DepartAt time.Time
}

// PlanDispatch bands due bins across the given trucks and orders each band
// with the planner. Returned plans follow the order of req.Trucks.
// Nothing is assigned; the caller applies the plans.
func PlanDispatch(
	ctx context.Context,
	req DispatchRequest,
	planner ports.RoutePlanner,
	provider ports.DistanceProvider,
) ([]*domain.RoutePlan, error) {
	if len(req.Due) == 0 {
		return nil, fmt.Errorf("plan dispatch: %w", domain.ErrEmptyFleet)
	}
	if len(req.Trucks) == 0 {
		return []*domain.RoutePlan{}, nil
	}

	distances := make(map[string]ports.DistanceResult, len(req.Due))

	// Prefer a single depot->many lookup when supported.
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		results, err := mp.GetDistances(ctx, req.Depot, req.Due)
		if err != nil {
			return nil, fmt.Errorf("plan dispatch: get matrix distances from depot: %w", err)
		}
		for _, d := range req.Due {
			r, ok := results[d.ID]
			if !ok {
				return nil, fmt.Errorf("plan dispatch: missing depot distance for %q", d.ID)
			}
			distances[d.ID] = r
		}
	} else {
		for _, d := range req.Due {
			r, err := provider.GetDistance(ctx, req.Depot, d)
			if err != nil {
				return nil, fmt.Errorf("plan dispatch: get distance depot -> %q: %w", d.ID, err)
			}
			distances[d.ID] = r
		}
	}

	bands, err := AssignBinsByDistance(req.Trucks, req.Due, distances)
	if err != nil {
		return nil, fmt.Errorf("plan dispatch: %w", err)
	}

	plans := make([]*domain.RoutePlan, 0, len(bands))
	for _, truck := range req.Trucks {
		band, ok := bands[truck.TruckID]
		if !ok {
			continue
		}
		plan, err := planner.PlanRoute(ctx, truck.TruckID, req.DepartAt, truck.Site(), band)
		if err != nil {
			return nil, fmt.Errorf("plan dispatch: truck %s: %w", truck.TruckID, err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}
