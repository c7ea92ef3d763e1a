package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"waste-sim-service/internal/adapters/distance"
	"waste-sim-service/internal/domain"
)

func site(id string) domain.Site { return domain.Site{ID: id} }

func mockPairs() []distance.MockPair {
	return []distance.MockPair{
		{From: "DEPOT", To: "A", Meters: 1000, Seconds: 300},
		{From: "DEPOT", To: "B", Meters: 2000, Seconds: 600},
		{From: "DEPOT", To: "C", Meters: 1500, Seconds: 450},
		{From: "A", To: "B", Meters: 800, Seconds: 240},
		{From: "A", To: "C", Meters: 700, Seconds: 210},
		{From: "B", To: "C", Meters: 900, Seconds: 270},
		{From: "B", To: "A", Meters: 800, Seconds: 240},
		{From: "C", To: "A", Meters: 700, Seconds: 210},
		{From: "C", To: "B", Meters: 900, Seconds: 270},
	}
}

func TestNearestNeighborPlannerPlanRoute(t *testing.T) {
	planner := NewNearestNeighborPlanner(distance.NewMockDistanceProvider(mockPairs()))

	depart := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	plan, err := planner.PlanRoute(context.Background(), "TRUCK01", depart, site("DEPOT"),
		[]domain.Site{site("A"), site("B"), site("C")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"A", "C", "B"}
	got := plan.BinIDs()
	if len(got) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stop %d = %q, want %q", i, got[i], want[i])
		}
	}

	if plan.TotalDurationSeconds != 780 {
		t.Fatalf("duration = %d, want 780", plan.TotalDurationSeconds)
	}
	if plan.TotalDistanceMeters != 2600 {
		t.Fatalf("distance = %d, want 2600", plan.TotalDistanceMeters)
	}
	if plan.TruckID != "TRUCK01" {
		t.Fatalf("truck = %q, want TRUCK01", plan.TruckID)
	}
	if want := depart.Add(780 * time.Second); !plan.Stops[2].ArriveAt.Equal(want) {
		t.Fatalf("last arrival = %v, want %v", plan.Stops[2].ArriveAt, want)
	}
	if plan.Stops[1].LegDistanceMeters != 700 {
		t.Fatalf("leg to C = %d, want 700", plan.Stops[1].LegDistanceMeters)
	}
}

func TestNearestNeighborPlannerCollapsesDuplicates(t *testing.T) {
	planner := NewNearestNeighborPlanner(distance.NewMockDistanceProvider(mockPairs()))

	plan, err := planner.PlanRoute(context.Background(), "TRUCK01", time.Time{}, site("DEPOT"),
		[]domain.Site{site("B"), site("A"), site("B")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(plan.Stops))
	}
}

func TestNearestNeighborPlannerEmptyStops(t *testing.T) {
	planner := NewNearestNeighborPlanner(distance.NewMockDistanceProvider(nil))

	plan, err := planner.PlanRoute(context.Background(), "TRUCK01", time.Time{}, site("DEPOT"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Stops) != 0 || plan.TotalDistanceMeters != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

func TestNearestNeighborPlannerMissingPair(t *testing.T) {
	planner := NewNearestNeighborPlanner(distance.NewMockDistanceProvider(mockPairs()))

	_, err := planner.PlanRoute(context.Background(), "TRUCK01", time.Time{}, site("DEPOT"),
		[]domain.Site{site("A"), site("Z")})
	if err == nil {
		t.Fatal("expected error for unknown pair")
	}
}

func TestNearestNeighborPlannerHaversineIsDeterministic(t *testing.T) {
	provider, err := distance.NewHaversineProvider(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	planner := NewNearestNeighborPlanner(provider)

	center := domain.Coordinates{Lon: 77.2090, Lat: 28.6139}
	stops := []domain.Site{
		{ID: "BIN003", Coordinates: center.Offset(3000, 0)},
		{ID: "BIN001", Coordinates: center.Offset(1000, 0)},
		{ID: "BIN002", Coordinates: center.Offset(2000, 0)},
		{ID: "BIN004", Coordinates: center.Offset(-500, 0)},
	}
	depot := domain.Site{ID: "DEPOT", Coordinates: center}

	first, err := planner.PlanRoute(context.Background(), "T", time.Time{}, depot, stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := planner.PlanRoute(context.Background(), "T", time.Time{}, depot, stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"BIN004", "BIN001", "BIN002", "BIN003"}
	for i, id := range want {
		if first.Stops[i].BinID != id {
			t.Fatalf("stop %d = %q, want %q", i, first.Stops[i].BinID, id)
		}
		if second.Stops[i].BinID != id {
			t.Fatalf("second run stop %d = %q, want %q", i, second.Stops[i].BinID, id)
		}
	}
}

func TestNearestNeighborPlannerCanceledContext(t *testing.T) {
	planner := NewNearestNeighborPlanner(distance.NewMockDistanceProvider(mockPairs()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := planner.PlanRoute(ctx, "T", time.Time{}, site("DEPOT"), []domain.Site{site("A")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
