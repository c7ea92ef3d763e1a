package domain

import "time"

// Reading is one immutable sensor record for a bin at a tick.
type Reading struct {
	BinID        string        `json:"bin_id"`
	Tick         uint64        `json:"tick"`
	Timestamp    time.Time     `json:"timestamp"`
	FillPercent  float64       `json:"fill_percent"`
	WasteType    WasteCategory `json:"waste_type"`
	Confidence   float64       `json:"confidence"`
	TemperatureC float64       `json:"temperature_c"`
	HumidityPct  float64       `json:"humidity_pct"`
	Collected    bool          `json:"collected"`
}

// CollectionEvent records a truck emptying a bin.
type CollectionEvent struct {
	ID         string    `json:"id"`
	BinID      string    `json:"bin_id"`
	TruckID    string    `json:"truck_id"`
	Tick       uint64    `json:"tick"`
	Timestamp  time.Time `json:"timestamp"`
	FillBefore float64   `json:"fill_before"`
	FillAfter  float64   `json:"fill_after"`
}
