package sim

import (
	"fmt"
	"time"
	"waste-sim-service/internal/domain"
)

// Params fixes every knob of a simulation run. Two runs with equal Params
// and the same strategies produce the same readings.
type Params struct {
	Seed     int64
	BinCount int
	// TruckCount of zero means one truck per five bins, rounded up.
	TruckCount    int
	TruckCapacity int

	CollectionThreshold float64
	WarningThreshold    float64
	ResetBaseline       float64
	MinFillDelta        float64
	MaxFillDelta        float64

	StartTime    time.Time
	TickDuration time.Duration
	// RetentionTicks bounds the reading history; zero keeps everything.
	RetentionTicks int
	AutoDispatch   bool

	Center       domain.Coordinates
	RadiusMeters float64
}

func DefaultParams() Params {
	return Params{
		Seed:                42,
		BinCount:            8,
		TruckCapacity:       domain.DefaultTruckCapacity,
		CollectionThreshold: 85,
		WarningThreshold:    70,
		ResetBaseline:       5,
		MinFillDelta:        1,
		MaxFillDelta:        12,
		StartTime:           time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC),
		TickDuration:        time.Hour,
		AutoDispatch:        true,
		Center:              domain.Coordinates{Lon: 77.2090, Lat: 28.6139},
		RadiusMeters:        12000,
	}
}

// EffectiveTruckCount resolves the default truck count.
func (p Params) EffectiveTruckCount() int {
	if p.TruckCount > 0 {
		return p.TruckCount
	}
	return (p.BinCount + 4) / 5
}

func (p Params) Validate() error {
	if _, err := domain.ValidateSeed(p.Seed); err != nil {
		return fmt.Errorf("simulation params: %w", err)
	}
	if p.BinCount < 1 {
		return fmt.Errorf("simulation params: bin count %d: %w", p.BinCount, domain.ErrInvalidCount)
	}
	if p.TruckCount < 0 {
		return fmt.Errorf("simulation params: truck count %d: %w", p.TruckCount, domain.ErrInvalidCount)
	}
	if p.TruckCapacity < 1 {
		return fmt.Errorf("simulation params: truck capacity must be positive, got %d", p.TruckCapacity)
	}
	if p.CollectionThreshold < 50 || p.CollectionThreshold > 95 {
		return fmt.Errorf("simulation params: collection threshold must be between 50 and 95, got %v", p.CollectionThreshold)
	}
	if p.WarningThreshold <= 0 || p.WarningThreshold >= p.CollectionThreshold {
		return fmt.Errorf("simulation params: warning threshold must be in (0, %v), got %v", p.CollectionThreshold, p.WarningThreshold)
	}
	if p.ResetBaseline < 0 || p.ResetBaseline >= p.CollectionThreshold {
		return fmt.Errorf("simulation params: reset baseline must be in [0, %v), got %v", p.CollectionThreshold, p.ResetBaseline)
	}
	if p.MinFillDelta < 0 || p.MaxFillDelta < p.MinFillDelta || p.MaxFillDelta > 100 {
		return fmt.Errorf("simulation params: fill delta range [%v, %v] is invalid", p.MinFillDelta, p.MaxFillDelta)
	}
	if p.TickDuration <= 0 {
		return fmt.Errorf("simulation params: tick duration must be positive, got %s", p.TickDuration)
	}
	if p.RetentionTicks < 0 {
		return fmt.Errorf("simulation params: retention ticks must be non-negative, got %d", p.RetentionTicks)
	}
	if p.RadiusMeters < 0 {
		return fmt.Errorf("simulation params: radius must be non-negative, got %v", p.RadiusMeters)
	}
	return nil
}
