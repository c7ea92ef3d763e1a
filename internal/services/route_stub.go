package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// NearestNeighborPlanner orders stops with a greedy nearest-neighbor pass.
//
// The algorithm minimizes immediate travel duration at each step.
// It does not attempt global route optimization (e.g., VRP solvers).
// The design prioritizes determinism and simplicity over optimality.
type NearestNeighborPlanner struct {
	Provider ports.DistanceProvider
}

func NewNearestNeighborPlanner(provider ports.DistanceProvider) *NearestNeighborPlanner {
	return &NearestNeighborPlanner{Provider: provider}
}

var _ ports.RoutePlanner = (*NearestNeighborPlanner)(nil)

// PlanRoute returns every stop exactly once. Duplicate stop IDs are
// collapsed onto their first occurrence.
func (p *NearestNeighborPlanner) PlanRoute(
	ctx context.Context,
	truckID string,
	departAt time.Time,
	start domain.Site,
	stops []domain.Site,
) (*domain.RoutePlan, error) {
	if p.Provider == nil {
		return nil, errors.New("plan route: distance provider must be non-nil")
	}
	if start.ID == "" {
		return nil, errors.New("plan route: start id must be non-empty")
	}

	remaining := make(map[string]domain.Site, len(stops))
	for _, s := range stops {
		if s.ID == "" {
			return nil, errors.New("plan route: stop id must be non-empty")
		}
		if _, seen := remaining[s.ID]; !seen {
			remaining[s.ID] = s
		}
	}

	plan := &domain.RoutePlan{
		TruckID:  truckID,
		DepartAt: departAt,
		Stops:    []domain.RouteStop{},
	}

	currentTime := departAt
	current := start

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan route: %w", err)
		}

		candidates := make([]domain.Site, 0, len(remaining))
		for _, s := range remaining {
			candidates = append(candidates, s)
		}

		results, err := p.lookup(ctx, current, candidates)
		if err != nil {
			return nil, err
		}

		var best string
		minDuration := math.MaxInt64

		// Select next stop by minimum travel duration (greedy step.)
		for _, c := range candidates {
			r, ok := results[c.ID]
			if !ok {
				return nil, fmt.Errorf("plan route: missing distance result from %q to %q", current.ID, c.ID)
			}
			// Tie-breaker ensures deterministic ordering when durations are equal.
			if r.DurationSeconds < minDuration || (r.DurationSeconds == minDuration && (best == "" || c.ID < best)) {
				minDuration = r.DurationSeconds
				best = c.ID
			}
		}

		leg := results[best]
		currentTime = currentTime.Add(time.Duration(leg.DurationSeconds) * time.Second)
		plan.TotalDurationSeconds += leg.DurationSeconds
		plan.TotalDistanceMeters += leg.DistanceMeters

		plan.Stops = append(plan.Stops, domain.RouteStop{
			BinID:             best,
			ArriveAt:          currentTime,
			LegDistanceMeters: leg.DistanceMeters,
		})

		current = remaining[best]
		delete(remaining, best)
	}

	return plan, nil
}

// Prefer batched distance lookups when supported.
func (p *NearestNeighborPlanner) lookup(
	ctx context.Context,
	origin domain.Site,
	destinations []domain.Site,
) (map[string]ports.DistanceResult, error) {
	if mp, ok := p.Provider.(ports.DistanceMatrixProvider); ok {
		results, err := mp.GetDistances(ctx, origin, destinations)
		if err != nil {
			return nil, fmt.Errorf("plan route: get distances matrix from %q: %w", origin.ID, err)
		}
		return results, nil
	}

	results := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, err := p.Provider.GetDistance(ctx, origin, d)
		if err != nil {
			return nil, fmt.Errorf("plan route: get distance: from %q to %q: %w", origin.ID, d.ID, err)
		}
		results[d.ID] = r
	}
	return results, nil
}
