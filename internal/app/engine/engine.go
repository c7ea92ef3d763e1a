package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"
	"waste-sim-service/internal/adapters/observability"
	"waste-sim-service/internal/adapters/publisher"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/platform/obs"
	"waste-sim-service/internal/ports"
	"waste-sim-service/internal/sim"
)

// MaxTicksPerCall bounds a single batch advance.
const MaxTicksPerCall = 1000

// Engine drives a Simulation and reports on it: metrics after every tick,
// a published snapshot after every committed tick, and log lines for
// skipped ones. It never stops on a failed tick.
type Engine struct {
	sim       *sim.Simulation
	publisher ports.SnapshotPublisher
	metrics   ports.Observability
	closers   []io.Closer
}

// New wires an engine. Nil publisher or metrics fall back to no-ops.
func New(s *sim.Simulation, pub ports.SnapshotPublisher, metrics ports.Observability) *Engine {
	if pub == nil {
		pub = publisher.NoopPublisher{}
	}
	if metrics == nil {
		metrics = observability.Noop{}
	}
	return &Engine{sim: s, publisher: pub, metrics: metrics}
}

func (e *Engine) Simulation() *sim.Simulation { return e.sim }

// Seed is the seed of the current run.
func (e *Engine) Seed() int64 { return e.sim.Params().Seed }

// Tick advances one step. A failed step is counted, logged and returned;
// state stays at the previous tick.
func (e *Engine) Tick(ctx context.Context) (report *sim.TickReport, err error) {
	defer obs.Time(ctx, "engine.tick")(&err)
	start := time.Now()

	report, err = e.sim.Tick(ctx)
	e.metrics.ObserveLatency(ports.MetricTickDuration, time.Since(start).Seconds())
	if err != nil {
		e.metrics.IncCounter(ports.MetricTicksSkipped, 1)
		return nil, fmt.Errorf("engine tick: %w", err)
	}

	e.metrics.IncCounter(ports.MetricTicks, 1)
	e.metrics.IncCounter(ports.MetricReadings, float64(len(report.Readings)))
	e.metrics.IncCounter(ports.MetricCollections, float64(len(report.Collections)))

	snap := report.Snapshot
	e.metrics.SetGauge(ports.MetricCriticalBins, float64(snap.Metrics.CriticalBins))
	e.metrics.SetGauge(ports.MetricAvgFill, snap.Metrics.AvgFillPercent)

	for _, ev := range report.Collections {
		log.Printf("op=engine.collect tick=%d bin=%s truck=%s fill_before=%.1f", ev.Tick, ev.BinID, ev.TruckID, ev.FillBefore)
	}

	e.publish(ctx, snap)
	return report, nil
}

func (e *Engine) publish(ctx context.Context, snap *domain.Snapshot) {
	if err := e.publisher.Publish(ctx, snap); err != nil {
		e.metrics.IncCounter(ports.MetricPublishFailures, 1)
		log.Printf("op=engine.publish tick=%d err=%v", snap.Tick, err)
	}
}

// TickSummary describes a batch advance.
type TickSummary struct {
	Requested   int
	Committed   int
	Skipped     int
	Collections int
}

// TickN runs n ticks in a row. Skipped ticks do not abort the batch.
func (e *Engine) TickN(ctx context.Context, n int) (TickSummary, error) {
	if n < 1 || n > MaxTicksPerCall {
		return TickSummary{}, fmt.Errorf("tick batch: count %d outside 1..%d: %w", n, MaxTicksPerCall, domain.ErrInvalidCount)
	}

	sum := TickSummary{Requested: n}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("tick batch: %w", err)
		}
		report, err := e.Tick(ctx)
		if err != nil {
			sum.Skipped++
			continue
		}
		sum.Committed++
		sum.Collections += len(report.Collections)
	}
	return sum, nil
}

// Run ticks every interval until ctx is canceled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("engine run: interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("op=engine.run interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("op=engine.run status=stopped")
			return nil
		case <-ticker.C:
			// Errors are already counted and logged by Tick.
			_, _ = e.Tick(ctx)
		}
	}
}

// Reset reseeds the simulation and publishes the fresh state.
func (e *Engine) Reset(ctx context.Context, seed int64) (err error) {
	defer obs.Time(ctx, "engine.reset")(&err)

	if err := e.sim.Reset(seed); err != nil {
		return err
	}
	e.publish(ctx, e.sim.Snapshot())
	return nil
}

func (e *Engine) Snapshot() *domain.Snapshot { return e.sim.Snapshot() }

func (e *Engine) Classify(sample domain.Sample) (domain.Classification, error) {
	return e.sim.Classify(sample)
}

func (e *Engine) PlanRoute(ctx context.Context, truckID string, binIDs []string) (plan *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "engine.plan_route")(&err)
	return e.sim.PlanRoute(ctx, truckID, binIDs)
}

func (e *Engine) AssignRoute(ctx context.Context, truckID string, binIDs []string) (plan *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "engine.assign_route")(&err)
	return e.sim.AssignRoute(ctx, truckID, binIDs)
}

func (e *Engine) Dispatch(ctx context.Context, truckID string) (plan *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "engine.dispatch")(&err)
	return e.sim.Dispatch(ctx, truckID)
}

func (e *Engine) Bin(id string) (domain.BinState, error) { return e.sim.Bin(id) }

func (e *Engine) Readings(binID string, limit int) ([]domain.Reading, error) {
	return e.sim.Readings(binID, limit)
}

// OnClose registers extra resources released by Close, in order.
func (e *Engine) OnClose(c io.Closer) { e.closers = append(e.closers, c) }

// Close releases the publisher and then every registered resource.
func (e *Engine) Close() error {
	errs := []error{e.publisher.Close()}
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
