package sim

import (
	"fmt"
	"math"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

var binCapacities = []int{120, 240, 360, 660, 1100}

// wasteProfile is the static tendency of one bin's contents.
type wasteProfile struct {
	organicBias float64
	hazardRate  float64
}

// Registry holds bins and trucks keyed by ID. Iteration is always in ID order.
type Registry struct {
	seed     int64
	bins     map[string]*domain.Bin
	binIDs   []string
	trucks   map[string]*domain.Truck
	truckIDs []string
	profiles map[string]wasteProfile
}

type registryOptions struct {
	truckCount    int
	truckCapacity int
	center        domain.Coordinates
	radiusMeters  float64
	landmarks     []ports.Landmark
	startTime     time.Time
}

type RegistryOption func(*registryOptions)

func WithTruckCount(n int) RegistryOption {
	return func(o *registryOptions) { o.truckCount = n }
}

func WithTruckCapacity(n int) RegistryOption {
	return func(o *registryOptions) { o.truckCapacity = n }
}

// WithArea places bins uniformly within radiusMeters of center.
func WithArea(center domain.Coordinates, radiusMeters float64) RegistryOption {
	return func(o *registryOptions) {
		o.center = center
		o.radiusMeters = radiusMeters
	}
}

func WithLandmarks(l []ports.Landmark) RegistryOption {
	return func(o *registryOptions) { o.landmarks = l }
}

func WithStartTime(t time.Time) RegistryOption {
	return func(o *registryOptions) { o.startTime = t }
}

// Initialize creates count bins and their trucks. The same (count, seed,
// options) always yields the same IDs, coordinates and initial fills.
func Initialize(count int, seed int64, opts ...RegistryOption) (*Registry, error) {
	if _, err := domain.ValidateSeed(seed); err != nil {
		return nil, fmt.Errorf("initialize registry: %w", err)
	}
	if count < 1 {
		return nil, fmt.Errorf("initialize registry: count %d: %w", count, domain.ErrInvalidCount)
	}

	defaults := DefaultParams()
	o := registryOptions{
		truckCount:    (count + 4) / 5,
		truckCapacity: domain.DefaultTruckCapacity,
		center:        defaults.Center,
		radiusMeters:  defaults.RadiusMeters,
		startTime:     defaults.StartTime,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.truckCount < 1 {
		return nil, fmt.Errorf("initialize registry: truck count %d: %w", o.truckCount, domain.ErrInvalidCount)
	}

	rng := newRegistryRand(seed)
	r := &Registry{
		seed:     seed,
		bins:     make(map[string]*domain.Bin, count),
		binIDs:   make([]string, 0, count),
		trucks:   make(map[string]*domain.Truck, o.truckCount),
		truckIDs: make([]string, 0, o.truckCount),
		profiles: make(map[string]wasteProfile, count),
	}

	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("BIN%03d", i)

		// sqrt keeps the density uniform over the disc.
		angle := rng.Float64() * 2 * math.Pi
		dist := o.radiusMeters * math.Sqrt(rng.Float64())
		loc := o.center.Offset(dist*math.Cos(angle), dist*math.Sin(angle))

		b := &domain.Bin{
			ID:             id,
			Area:           nearestArea(loc, o.landmarks),
			Location:       loc,
			CapacityLiters: binCapacities[rng.IntN(len(binCapacities))],
			FillPercent:    between(rng, 10, 60),
			DominantWaste:  domain.WasteGeneral,
			LastUpdated:    o.startTime,
		}
		r.bins[id] = b
		r.binIDs = append(r.binIDs, id)
		r.profiles[id] = wasteProfile{
			organicBias: between(rng, 0.5, 2.5),
			hazardRate:  between(rng, 0, 0.1),
		}
	}

	for i := 1; i <= o.truckCount; i++ {
		id := fmt.Sprintf("TRUCK%02d", i)
		r.trucks[id] = domain.NewTruck(id, o.truckCapacity, o.center)
		r.truckIDs = append(r.truckIDs, id)
	}

	return r, nil
}

func nearestArea(loc domain.Coordinates, landmarks []ports.Landmark) string {
	best := ""
	bestDist := math.Inf(1)
	for _, l := range landmarks {
		if d := loc.DistanceTo(l.Location); d < bestDist {
			best, bestDist = l.Area, d
		}
	}
	return best
}

func (r *Registry) Seed() int64 { return r.seed }

// Bin returns the bin with the given ID or ErrNotFound.
func (r *Registry) Bin(id string) (*domain.Bin, error) {
	b, ok := r.bins[id]
	if !ok {
		return nil, fmt.Errorf("bin %q: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

// Truck returns the truck with the given ID or ErrNotFound.
func (r *Registry) Truck(id string) (*domain.Truck, error) {
	t, ok := r.trucks[id]
	if !ok {
		return nil, fmt.Errorf("truck %q: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (r *Registry) Bins() []*domain.Bin {
	out := make([]*domain.Bin, 0, len(r.binIDs))
	for _, id := range r.binIDs {
		out = append(out, r.bins[id])
	}
	return out
}

func (r *Registry) Trucks() []*domain.Truck {
	out := make([]*domain.Truck, 0, len(r.truckIDs))
	for _, id := range r.truckIDs {
		out = append(out, r.trucks[id])
	}
	return out
}

func (r *Registry) BinIDs() []string   { return append([]string(nil), r.binIDs...) }
func (r *Registry) TruckIDs() []string { return append([]string(nil), r.truckIDs...) }

func (r *Registry) locate(binID string) (domain.Coordinates, bool) {
	b, ok := r.bins[binID]
	if !ok {
		return domain.Coordinates{}, false
	}
	return b.Location, true
}

// clone copies the mutable entities. IDs and profiles are shared since
// they never change after Initialize.
func (r *Registry) clone() *Registry {
	c := &Registry{
		seed:     r.seed,
		bins:     make(map[string]*domain.Bin, len(r.bins)),
		binIDs:   r.binIDs,
		trucks:   make(map[string]*domain.Truck, len(r.trucks)),
		truckIDs: r.truckIDs,
		profiles: r.profiles,
	}
	for id, b := range r.bins {
		c.bins[id] = b.Clone()
	}
	for id, t := range r.trucks {
		c.trucks[id] = t.Clone()
	}
	return c
}
