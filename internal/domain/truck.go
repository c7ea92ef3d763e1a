package domain

import (
	"fmt"
)

// TruckStatus is the lifecycle state of a collection vehicle.
type TruckStatus string

const (
	TruckIdle      TruckStatus = "idle"
	TruckEnRoute   TruckStatus = "en-route"
	TruckServicing TruckStatus = "servicing"
)

// DefaultTruckCapacity is the maximum number of stops on one route.
const DefaultTruckCapacity = 16

// Collection truck aggregate holding a route and moving along it one step per tick.
type Truck struct {
	TruckID     string
	Capacity    int
	Depot       Coordinates
	Position    Coordinates
	Status      TruckStatus
	Route       []string
	LastPlan    *RoutePlan
	Collections int
}

func NewTruck(id string, capacity int, depot Coordinates) *Truck {
	if capacity <= 0 {
		capacity = DefaultTruckCapacity
	}
	return &Truck{
		TruckID:  id,
		Capacity: capacity,
		Depot:    depot,
		Position: depot,
		Status:   TruckIdle,
	}
}

// Site returns the truck's current position as a routable site.
func (t *Truck) Site() Site { return Site{ID: t.TruckID, Coordinates: t.Position} }

// Available reports whether the truck is parked with no pending stops.
func (t *Truck) Available() bool { return t.Status == TruckIdle && len(t.Route) == 0 }

// AssignRoute replaces the remaining route with the plan's stops.
// Only available trucks accept a new route.
func (t *Truck) AssignRoute(plan *RoutePlan) error {
	if !t.Available() {
		return fmt.Errorf("assign route: truck %s is %s: %w", t.TruckID, t.Status, ErrTruckBusy)
	}
	if len(plan.Stops) > t.Capacity {
		return fmt.Errorf("assign route: truck %s capacity=%d stops=%d: %w", t.TruckID, t.Capacity, len(plan.Stops), ErrOverCapacity)
	}

	t.Route = plan.BinIDs()
	t.LastPlan = plan
	return nil
}

// ServicingBin returns the bin the truck is parked at, if any.
func (t *Truck) ServicingBin() (string, bool) {
	if t.Status != TruckServicing || len(t.Route) == 0 {
		return "", false
	}
	return t.Route[0], true
}

// Advance moves the truck one step:
// idle with a route -> en-route (halfway to the next stop),
// en-route -> servicing at the next stop,
// servicing -> drop the serviced stop, then en-route or idle.
func (t *Truck) Advance(locate func(binID string) (Coordinates, bool)) error {
	switch t.Status {
	case TruckServicing:
		if len(t.Route) > 0 {
			t.Route = t.Route[1:]
		}
		return t.departNext(locate)
	case TruckEnRoute:
		if len(t.Route) == 0 {
			t.Status = TruckIdle
			return nil
		}
		target, ok := locate(t.Route[0])
		if !ok {
			return fmt.Errorf("advance truck %s: bin %q: %w", t.TruckID, t.Route[0], ErrNotFound)
		}
		t.Position = target
		t.Status = TruckServicing
		return nil
	default:
		return t.departNext(locate)
	}
}

func (t *Truck) departNext(locate func(binID string) (Coordinates, bool)) error {
	if len(t.Route) == 0 {
		t.Route = nil
		t.Status = TruckIdle
		return nil
	}
	next, ok := locate(t.Route[0])
	if !ok {
		return fmt.Errorf("advance truck %s: bin %q: %w", t.TruckID, t.Route[0], ErrNotFound)
	}
	t.Position = t.Position.Midpoint(next)
	t.Status = TruckEnRoute
	return nil
}

// Clone returns a deep copy. The plan is shared since plans are immutable.
func (t *Truck) Clone() *Truck {
	c := *t
	if t.Route != nil {
		c.Route = append([]string(nil), t.Route...)
	}
	return &c
}
