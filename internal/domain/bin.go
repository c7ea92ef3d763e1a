package domain

import "time"

// BinStatus is the alert band a bin falls into.
type BinStatus string

const (
	BinGood     BinStatus = "good"
	BinWarning  BinStatus = "warning"
	BinCritical BinStatus = "critical"
)

// Bin is a simulated smart receptacle with a fill sensor.
// Identity, location and capacity are fixed at registry initialization;
// only the state generator changes the remaining fields.
type Bin struct {
	ID             string
	Area           string
	Location       Coordinates
	CapacityLiters int
	FillPercent    float64
	DominantWaste  WasteCategory
	LastUpdated    time.Time
	LastCollection *time.Time
}

// StatusFor maps a fill level onto an alert band. Both thresholds are
// exclusive: a bin at exactly the warning level is still good.
func StatusFor(fill, warning, critical float64) BinStatus {
	switch {
	case fill > critical:
		return BinCritical
	case fill > warning:
		return BinWarning
	default:
		return BinGood
	}
}

// ClampFill bounds a fill level to [0,100].
func ClampFill(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Site returns the bin as a routable site.
func (b *Bin) Site() Site { return Site{ID: b.ID, Coordinates: b.Location} }

// Clone returns a deep copy.
func (b *Bin) Clone() *Bin {
	c := *b
	if b.LastCollection != nil {
		t := *b.LastCollection
		c.LastCollection = &t
	}
	return &c
}
