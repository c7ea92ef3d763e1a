package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"

	"github.com/google/uuid"
)

// collectionNamespace scopes collection event IDs so they are stable
// across runs with the same seed.
var collectionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("waste-sim-service/collection-events"))

// world is everything a tick mutates. A tick runs on a clone and the clone
// replaces the live world only when every step succeeded.
type world struct {
	reg         *Registry
	tick        uint64
	now         time.Time
	collections int
	// composition of the latest sample per bin; each map is immutable once stored.
	composition map[string]map[domain.Material]float64
}

func newWorld(reg *Registry, start time.Time) *world {
	return &world{
		reg:         reg,
		now:         start,
		composition: make(map[string]map[domain.Material]float64),
	}
}

func (w *world) clone() *world {
	c := &world{
		reg:         w.reg.clone(),
		tick:        w.tick,
		now:         w.now,
		collections: w.collections,
		composition: make(map[string]map[domain.Material]float64, len(w.composition)),
	}
	for id, comp := range w.composition {
		c.composition[id] = comp
	}
	return c
}

// TickReport describes one committed tick. Snapshot is the state right
// after the commit, taken before any other writer could run.
type TickReport struct {
	Tick        uint64
	SimTime     time.Time
	Readings    []domain.Reading
	Collections []domain.CollectionEvent
	Dispatched  []*domain.RoutePlan
	Snapshot    *domain.Snapshot
}

// step advances w by one tick in place. w must be a staged clone.
func (w *world) step(ctx context.Context, p Params, deps Deps) (*TickReport, error) {
	w.tick++
	w.now = w.now.Add(p.TickDuration)
	rng := newTickRand(p.Seed, w.tick)

	report := &TickReport{Tick: w.tick, SimTime: w.now}

	// Trucks move before bins fill, so a truck arriving this tick services
	// its bin in the same tick.
	servicing := make(map[string]*domain.Truck)
	for _, t := range w.reg.Trucks() {
		if err := t.Advance(w.reg.locate); err != nil {
			return nil, fmt.Errorf("tick %d: %w", w.tick, err)
		}
		if binID, ok := t.ServicingBin(); ok {
			if _, taken := servicing[binID]; !taken {
				servicing[binID] = t
			}
		}
	}

	report.Readings = make([]domain.Reading, 0, len(w.reg.binIDs))
	for _, b := range w.reg.Bins() {
		reading, event, err := w.updateBin(b, servicing[b.ID], rng, p, deps.Classifier)
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", w.tick, err)
		}
		report.Readings = append(report.Readings, reading)
		if event != nil {
			report.Collections = append(report.Collections, *event)
		}
	}
	w.collections += len(report.Collections)

	if p.AutoDispatch {
		plans, err := w.dispatch(ctx, w.idleTrucks(), p.CollectionThreshold, deps)
		if err != nil && !isEmptyFleet(err) {
			return nil, fmt.Errorf("tick %d: auto-dispatch: %w", w.tick, err)
		}
		report.Dispatched = plans
	}

	return report, nil
}

// updateBin fills, samples and classifies one bin. Every bin consumes the
// same number of draws whatever happens to it, so one bin's collection
// never shifts the stream of the bins after it.
func (w *world) updateBin(
	b *domain.Bin,
	truck *domain.Truck,
	rng *rand.Rand,
	p Params,
	classifier ports.Classifier,
) (domain.Reading, *domain.CollectionEvent, error) {
	delta := between(rng, p.MinFillDelta, p.MaxFillDelta)
	fill := domain.ClampFill(b.FillPercent + delta)

	var event *domain.CollectionEvent
	if fill > p.CollectionThreshold && truck != nil {
		event = &domain.CollectionEvent{
			ID:         collectionID(p.Seed, b.ID, w.tick),
			BinID:      b.ID,
			TruckID:    truck.TruckID,
			Tick:       w.tick,
			Timestamp:  w.now,
			FillBefore: fill,
			FillAfter:  p.ResetBaseline,
		}
		fill = p.ResetBaseline
		collectedAt := w.now
		b.LastCollection = &collectedAt
		truck.Collections++
	}
	b.FillPercent = fill
	b.LastUpdated = w.now

	sample := w.sample(b.ID, rng)
	temperature := between(rng, 20, 35)
	humidity := between(rng, 40, 80)

	cls, err := classifier.Classify(sample)
	if err != nil {
		return domain.Reading{}, nil, fmt.Errorf("classify bin %s: %w", b.ID, err)
	}
	if err := checkClassification(cls); err != nil {
		return domain.Reading{}, nil, fmt.Errorf("classify bin %s: %s: %w", b.ID, classifier.Name(), err)
	}
	b.DominantWaste = cls.Label
	w.composition[b.ID] = sample.Composition

	return domain.Reading{
		BinID:        b.ID,
		Tick:         w.tick,
		Timestamp:    w.now,
		FillPercent:  fill,
		WasteType:    cls.Label,
		Confidence:   cls.Confidence,
		TemperatureC: temperature,
		HumidityPct:  humidity,
		Collected:    event != nil,
	}, event, nil
}

// sample draws a synthetic composition in kilograms, skewed by the bin's profile.
func (w *world) sample(binID string, rng *rand.Rand) domain.Sample {
	profile := w.reg.profiles[binID]

	comp := map[domain.Material]float64{
		domain.MaterialPlastic: between(rng, 20, 40),
		domain.MaterialPaper:   between(rng, 15, 30),
		domain.MaterialGlass:   between(rng, 5, 20),
		domain.MaterialMetal:   between(rng, 5, 15),
		domain.MaterialOrganic: between(rng, 25, 45) * profile.organicBias,
	}
	hazardRoll := rng.Float64()
	hazard := between(rng, 0, 3)
	if hazardRoll < profile.hazardRate {
		hazard += between(rng, 5, 12)
	} else {
		_ = rng.Float64()
	}
	comp[domain.MaterialHazardous] = hazard

	return domain.Sample{
		BinID:       binID,
		Tick:        w.tick,
		Composition: comp,
		Jitter:      rng.Float64(),
	}
}

func checkClassification(c domain.Classification) error {
	if !c.Label.Valid() {
		return fmt.Errorf("unknown label %q", c.Label)
	}
	if math.IsNaN(c.Confidence) || c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", c.Confidence)
	}
	return nil
}

func collectionID(seed int64, binID string, tick uint64) string {
	name := fmt.Sprintf("%d/%s/%d", seed, binID, tick)
	return uuid.NewSHA1(collectionNamespace, []byte(name)).String()
}
