package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// Deps are the pluggable strategies a Simulation runs with.
type Deps struct {
	Classifier ports.Classifier
	Planner    ports.RoutePlanner
	Distances  ports.DistanceProvider
	Landmarks  ports.LandmarkSource
}

func (d Deps) validate() error {
	switch {
	case d.Classifier == nil:
		return errors.New("classifier must be non-nil")
	case d.Planner == nil:
		return errors.New("route planner must be non-nil")
	case d.Distances == nil:
		return errors.New("distance provider must be non-nil")
	}
	return nil
}

// Simulation is the explicit state object of one run.
//
// Writers (Tick, Reset, Dispatch, AssignRoute) hold the write lock for the
// whole operation; readers never observe a half-applied tick.
type Simulation struct {
	mu sync.RWMutex

	params    Params
	deps      Deps
	landmarks []ports.Landmark

	world   *world
	history *History
	warning string
}

func New(params Params, deps Deps) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}

	var landmarks []ports.Landmark
	if deps.Landmarks != nil {
		l, err := deps.Landmarks.Landmarks()
		if err != nil {
			return nil, fmt.Errorf("new simulation: load landmarks: %w", err)
		}
		landmarks = l
	}

	s := &Simulation{params: params, deps: deps, landmarks: landmarks}
	if err := s.init(params.Seed); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	return s, nil
}

func (s *Simulation) init(seed int64) error {
	reg, err := Initialize(s.params.BinCount, seed,
		WithTruckCount(s.params.EffectiveTruckCount()),
		WithTruckCapacity(s.params.TruckCapacity),
		WithArea(s.params.Center, s.params.RadiusMeters),
		WithLandmarks(s.landmarks),
		WithStartTime(s.params.StartTime),
	)
	if err != nil {
		return err
	}

	if sc, ok := s.deps.Classifier.(ports.SeededClassifier); ok {
		sc.Reseed(seed)
	}

	s.params.Seed = seed
	s.world = newWorld(reg, s.params.StartTime)
	s.history = NewHistory(s.params.RetentionTicks)
	s.warning = ""
	return nil
}

func (s *Simulation) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Tick advances the simulation by one step. On error nothing is committed,
// the warning shown in snapshots is updated and the error is returned.
func (s *Simulation) Tick(ctx context.Context) (*TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.world.clone()
	report, err := staged.step(ctx, s.params, s.deps)
	if err != nil {
		s.warning = fmt.Sprintf("tick %d skipped: %v", staged.tick, err)
		return nil, err
	}

	s.world = staged
	s.history.Append(report.Tick, report.Readings)
	s.warning = ""
	report.Snapshot = aggregate(s.world, s.history, s.params, s.warning)
	return report, nil
}

// Snapshot returns the current view. It has no side effects.
func (s *Simulation) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate(s.world, s.history, s.params, s.warning)
}

// Reset rebuilds the registry from seed and clears history.
func (s *Simulation) Reset(seed int64) error {
	if _, err := domain.ValidateSeed(seed); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.init(seed); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Classify runs the configured classifier on an arbitrary sample.
func (s *Simulation) Classify(sample domain.Sample) (domain.Classification, error) {
	c, err := s.deps.Classifier.Classify(sample)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}
	if err := checkClassification(c); err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %s: %w", s.deps.Classifier.Name(), err)
	}
	return c, nil
}

// PlanRoute orders binIDs for a truck without assigning anything.
// Blank and duplicate IDs are dropped; an empty remainder is ErrEmptyFleet.
func (s *Simulation) PlanRoute(ctx context.Context, truckID string, binIDs []string) (*domain.RoutePlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planRoute(ctx, truckID, binIDs)
}

// AssignRoute plans a route and hands it to an idle truck.
func (s *Simulation) AssignRoute(ctx context.Context, truckID string, binIDs []string) (*domain.RoutePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.planRoute(ctx, truckID, binIDs)
	if err != nil {
		return nil, err
	}
	t, err := s.world.reg.Truck(truckID)
	if err != nil {
		return nil, fmt.Errorf("assign route: %w", err)
	}
	if err := t.AssignRoute(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Simulation) planRoute(ctx context.Context, truckID string, binIDs []string) (*domain.RoutePlan, error) {
	truck, err := s.world.reg.Truck(strings.TrimSpace(truckID))
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	seen := make(map[string]struct{}, len(binIDs))
	stops := make([]domain.Site, 0, len(binIDs))
	for _, raw := range binIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		b, err := s.world.reg.Bin(id)
		if err != nil {
			return nil, fmt.Errorf("plan route: %w", err)
		}
		stops = append(stops, b.Site())
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("plan route: truck %s: %w", truck.TruckID, domain.ErrEmptyFleet)
	}

	plan, err := s.deps.Planner.PlanRoute(ctx, truck.TruckID, s.world.now, truck.Site(), stops)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}
	return plan, nil
}

// Dispatch assigns due, unassigned bins to one idle truck.
func (s *Simulation) Dispatch(ctx context.Context, truckID string) (*domain.RoutePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.world.clone()
	t, err := staged.reg.Truck(truckID)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	if !t.Available() {
		return nil, fmt.Errorf("dispatch: truck %s has %d pending stops: %w", t.TruckID, len(t.Route), domain.ErrTruckBusy)
	}

	plans, err := staged.dispatch(ctx, []*domain.Truck{t}, s.params.CollectionThreshold, s.deps)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("dispatch: truck %s: %w", t.TruckID, domain.ErrEmptyFleet)
	}

	s.world = staged
	return plans[0], nil
}

// Bin returns the current state of one bin.
func (s *Simulation) Bin(id string) (domain.BinState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.world.reg.Bin(id)
	if err != nil {
		return domain.BinState{}, err
	}
	return binState(b, s.history, s.params, s.world.composition[b.ID]), nil
}

// Truck returns the current state of one truck.
func (s *Simulation) Truck(id string) (domain.TruckState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.world.reg.Truck(id)
	if err != nil {
		return domain.TruckState{}, err
	}
	return truckState(t), nil
}

// Readings returns up to limit of the newest retained readings for a bin.
func (s *Simulation) Readings(binID string, limit int) ([]domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.world.reg.Bin(binID); err != nil {
		return nil, err
	}
	return s.history.ForBin(binID, limit), nil
}

// AllReadings returns every retained reading in emission order.
func (s *Simulation) AllReadings() []domain.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.All()
}
