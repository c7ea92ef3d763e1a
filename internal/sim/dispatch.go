package sim

import (
	"context"
	"errors"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/services"
)

const depotID = "DEPOT"

// dueUnassigned lists bins above the collection threshold that no truck
// is already heading to, in ID order.
func (w *world) dueUnassigned(threshold float64) []domain.Site {
	assigned := make(map[string]struct{})
	for _, t := range w.reg.trucks {
		for _, id := range t.Route {
			assigned[id] = struct{}{}
		}
	}

	due := []domain.Site{}
	for _, b := range w.reg.Bins() {
		if b.FillPercent <= threshold {
			continue
		}
		if _, ok := assigned[b.ID]; ok {
			continue
		}
		due = append(due, b.Site())
	}
	return due
}

func (w *world) idleTrucks() []*domain.Truck {
	idle := []*domain.Truck{}
	for _, t := range w.reg.Trucks() {
		if t.Available() {
			idle = append(idle, t)
		}
	}
	return idle
}

func (w *world) depot() domain.Site {
	trucks := w.reg.Trucks()
	if len(trucks) == 0 {
		return domain.Site{ID: depotID}
	}
	return domain.Site{ID: depotID, Coordinates: trucks[0].Depot}
}

// dispatch plans routes for the given trucks over the due, unassigned bins
// and assigns them. It returns ErrEmptyFleet when nothing is due.
func (w *world) dispatch(
	ctx context.Context,
	trucks []*domain.Truck,
	threshold float64,
	deps Deps,
) ([]*domain.RoutePlan, error) {
	if len(trucks) == 0 {
		return nil, nil
	}
	due := w.dueUnassigned(threshold)

	plans, err := services.PlanDispatch(ctx, services.DispatchRequest{
		Trucks:   trucks,
		Due:      due,
		Depot:    w.depot(),
		DepartAt: w.now,
	}, deps.Planner, deps.Distances)
	if err != nil {
		return nil, err
	}

	for _, plan := range plans {
		t, err := w.reg.Truck(plan.TruckID)
		if err != nil {
			return nil, err
		}
		if err := t.AssignRoute(plan); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func isEmptyFleet(err error) bool { return errors.Is(err, domain.ErrEmptyFleet) }
