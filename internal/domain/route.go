package domain

import "time"

// Represents a single stop in a collection route.
// ArriveAt is simulated time; LegDistanceMeters is the hop from the previous stop.
type RouteStop struct {
	BinID             string
	ArriveAt          time.Time
	LegDistanceMeters int
}

// Represents the planned collection route for a single truck.
// A RoutePlan is the output of a route stub and only describes an ordering;
// it makes no claim of optimality and has no side effects.
type RoutePlan struct {
	TruckID              string
	DepartAt             time.Time
	Stops                []RouteStop
	TotalDurationSeconds int
	TotalDistanceMeters  int
}

// BinIDs returns the stop order.
func (p *RoutePlan) BinIDs() []string {
	ids := make([]string, 0, len(p.Stops))
	for _, s := range p.Stops {
		ids = append(ids, s.BinID)
	}
	return ids
}

// RouteSummary is the per-truck figure shown on route dashboards.
type RouteSummary struct {
	Bins       int     `json:"bins"`
	DistanceKm float64 `json:"distance_km"`
	TimeHours  float64 `json:"time_hours"`
}

func (p *RoutePlan) Summary() RouteSummary {
	return RouteSummary{
		Bins:       len(p.Stops),
		DistanceKm: float64(p.TotalDistanceMeters) / 1000,
		TimeHours:  float64(p.TotalDurationSeconds) / 3600,
	}
}
