package dto

import (
	"encoding/json"
	"time"
	"waste-sim-service/internal/domain"
)

type TickRequest struct {
	Count *int `json:"count"`
}

type TickResponse struct {
	Requested   int              `json:"requested"`
	Committed   int              `json:"committed"`
	Skipped     int              `json:"skipped"`
	Collections int              `json:"collections"`
	Snapshot    *domain.Snapshot `json:"snapshot"`
}

type ClassifyRequest struct {
	BinID       string             `json:"bin_id"`
	Composition map[string]float64 `json:"composition"`
	Jitter      float64            `json:"jitter"`
}

type ClassifyResponse struct {
	Label      domain.WasteCategory `json:"label"`
	Confidence float64              `json:"confidence"`
}

type RouteRequest struct {
	TruckID string   `json:"truck_id"`
	BinIDs  []string `json:"bin_ids"`
	// Assign hands the planned route to the truck instead of only previewing it.
	Assign bool `json:"assign"`
}

type RouteStopResponse struct {
	BinID             string    `json:"bin_id"`
	ArriveAt          time.Time `json:"arrive_at"`
	LegDistanceMeters int       `json:"leg_distance_meters"`
}

type RouteResponse struct {
	TruckID              string              `json:"truck_id"`
	DepartAt             time.Time           `json:"depart_at"`
	TotalDistanceMeters  int                 `json:"total_distance_meters"`
	TotalDurationSeconds int                 `json:"total_duration_seconds"`
	Stops                []RouteStopResponse `json:"stops"`
	Summary              domain.RouteSummary `json:"summary"`
	Assigned             bool                `json:"assigned"`
}

func NewRouteResponse(p *domain.RoutePlan, assigned bool) RouteResponse {
	stops := make([]RouteStopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, RouteStopResponse{
			BinID:             s.BinID,
			ArriveAt:          s.ArriveAt,
			LegDistanceMeters: s.LegDistanceMeters,
		})
	}
	return RouteResponse{
		TruckID:              p.TruckID,
		DepartAt:             p.DepartAt,
		TotalDistanceMeters:  p.TotalDistanceMeters,
		TotalDurationSeconds: p.TotalDurationSeconds,
		Stops:                stops,
		Summary:              p.Summary(),
		Assigned:             assigned,
	}
}

// ResetRequest accepts the seed as a JSON string or number.
type ResetRequest struct {
	Seed json.RawMessage `json:"seed"`
}

type ReadingsResponse struct {
	BinID    string           `json:"bin_id"`
	Readings []domain.Reading `json:"readings"`
}
