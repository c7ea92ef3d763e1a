package domain

import "time"

// BinState is the per-bin view inside a Snapshot.
// DailyWasteKg is the weight of the latest sample.
type BinState struct {
	BinID          string        `json:"bin_id"`
	Area           string        `json:"area"`
	Location       Coordinates   `json:"location"`
	CapacityLiters int           `json:"capacity_liters"`
	FillPercent    float64       `json:"fill_percent"`
	WasteType      WasteCategory `json:"waste_type"`
	Status         BinStatus     `json:"status"`
	LastCollection *time.Time    `json:"last_collection"`
	LastReading    *Reading      `json:"last_reading"`
	DailyWasteKg   float64       `json:"daily_waste_kg"`
}

// TruckState is the per-truck view inside a Snapshot.
type TruckState struct {
	TruckID      string        `json:"truck_id"`
	Position     Coordinates   `json:"position"`
	Status       TruckStatus   `json:"status"`
	Route        []string      `json:"route"`
	Collections  int           `json:"collections"`
	RouteSummary *RouteSummary `json:"route_summary,omitempty"`
}

// Metrics is the KPI block of the dashboard.
// RecyclingRate is the recyclable share of the city-wide composition, in percent.
type Metrics struct {
	TotalBins            int     `json:"total_bins"`
	CriticalBins         int     `json:"critical_bins"`
	WarningBins          int     `json:"warning_bins"`
	GoodBins             int     `json:"good_bins"`
	AvgFillPercent       float64 `json:"avg_fill_percent"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	TotalCollections     int     `json:"total_collections"`
	TotalDailyWasteKg    float64 `json:"total_daily_waste_kg"`
	RecyclingRate        float64 `json:"recycling_rate"`
}

// Alert flags a bin that needs attention.
type Alert struct {
	BinID       string    `json:"bin_id"`
	Area        string    `json:"area"`
	FillPercent float64   `json:"fill_percent"`
	Level       BinStatus `json:"level"`
}

// Snapshot is a read-only view of the current simulated state.
// It is derived on every request and never stored.
type Snapshot struct {
	Tick        uint64                `json:"tick"`
	SimTime     time.Time             `json:"sim_time"`
	Seed        int64                 `json:"seed"`
	Bins        map[string]BinState   `json:"bins"`
	Trucks      map[string]TruckState `json:"trucks"`
	Metrics     Metrics               `json:"metrics"`
	Alerts      []Alert               `json:"alerts"`
	Composition map[Material]float64  `json:"composition"`
	Warning     string                `json:"warning,omitempty"`
}
