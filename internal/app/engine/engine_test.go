package engine

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
	"waste-sim-service/internal/adapters/classifier"
	"waste-sim-service/internal/adapters/distance"
	"waste-sim-service/internal/adapters/observability"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
	"waste-sim-service/internal/services"
	"waste-sim-service/internal/sim"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu    sync.Mutex
	ticks []uint64
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, snap *domain.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ticks = append(p.ticks, snap.Tick)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint64(nil), p.ticks...)
}

type switchClassifier struct {
	inner ports.Classifier
	fail  bool
}

func (c *switchClassifier) Name() string { return "switch" }

func (c *switchClassifier) Classify(s domain.Sample) (domain.Classification, error) {
	if c.fail {
		return domain.Classification{}, errors.New("classifier offline")
	}
	return c.inner.Classify(s)
}

func newSim(t *testing.T, c ports.Classifier) *sim.Simulation {
	t.Helper()
	provider, err := distance.NewHaversineProvider(0)
	require.NoError(t, err)

	p := sim.DefaultParams()
	p.BinCount = 10
	s, err := sim.New(p, sim.Deps{
		Classifier: c,
		Planner:    services.NewNearestNeighborPlanner(provider),
		Distances:  provider,
	})
	require.NoError(t, err)
	return s
}

func TestEngineTickRecordsMetricsAndPublishes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewPromObs(reg)
	pub := &recordingPublisher{}

	e := New(newSim(t, classifier.NewLookupClassifier()), pub, metrics)

	sum, err := e.TickN(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, TickSummary{Requested: 3, Committed: 3, Collections: sum.Collections}, sum)

	assert.Equal(t, []uint64{1, 2, 3}, pub.published())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Counter(ports.MetricTicks)))
	assert.Equal(t, 30.0, testutil.ToFloat64(metrics.Counter(ports.MetricReadings)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Counter(ports.MetricTicksSkipped)))
	assert.Equal(t, e.Snapshot().Metrics.AvgFillPercent, testutil.ToFloat64(metrics.Gauge(ports.MetricAvgFill)))
}

func TestEnginePublishesEachTickOnceUnderConcurrency(t *testing.T) {
	pub := &recordingPublisher{}
	e := New(newSim(t, classifier.NewLookupClassifier()), pub, nil)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.TickN(context.Background(), 25)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got := pub.published()
	slices.Sort(got)
	want := make([]uint64, 0, 100)
	for i := uint64(1); i <= 100; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, got)
}

func TestEngineSkipsFailedTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewPromObs(reg)
	pub := &recordingPublisher{}
	cls := &switchClassifier{inner: classifier.NewLookupClassifier()}

	e := New(newSim(t, cls), pub, metrics)
	_, err := e.Tick(context.Background())
	require.NoError(t, err)

	cls.fail = true
	sum, err := e.TickN(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, 0, sum.Committed)

	snap := e.Snapshot()
	assert.Equal(t, uint64(1), snap.Tick)
	assert.NotEmpty(t, snap.Warning)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Counter(ports.MetricTicksSkipped)))
	assert.Equal(t, []uint64{1}, pub.published())
}

func TestEnginePublishFailureIsNotFatal(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewPromObs(reg)
	pub := &recordingPublisher{err: errors.New("broker down")}

	e := New(newSim(t, classifier.NewLookupClassifier()), pub, metrics)
	_, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), e.Snapshot().Tick)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Counter(ports.MetricPublishFailures)))
}

func TestEngineTickNBounds(t *testing.T) {
	e := New(newSim(t, classifier.NewLookupClassifier()), nil, nil)

	for _, n := range []int{0, -1, MaxTicksPerCall + 1} {
		_, err := e.TickN(context.Background(), n)
		assert.ErrorIs(t, err, domain.ErrInvalidCount, "n=%d", n)
	}
	assert.Equal(t, uint64(0), e.Snapshot().Tick)
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	pub := &recordingPublisher{}
	e := New(newSim(t, classifier.NewLookupClassifier()), pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return len(pub.published()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	assert.Error(t, e.Run(context.Background(), 0))
}

func TestEngineResetPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	e := New(newSim(t, classifier.NewLookupClassifier()), pub, nil)

	_, err := e.TickN(context.Background(), 2)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Reset(context.Background(), -5), domain.ErrInvalidSeed)
	require.NoError(t, e.Reset(context.Background(), 9))

	assert.Equal(t, []uint64{1, 2, 0}, pub.published())
	assert.Equal(t, int64(9), e.Snapshot().Seed)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestEngineCloseReleasesRegisteredResources(t *testing.T) {
	e := New(newSim(t, classifier.NewLookupClassifier()), nil, nil)

	var order []string
	e.OnClose(closerFunc(func() error { order = append(order, "cache"); return nil }))
	e.OnClose(closerFunc(func() error { order = append(order, "client"); return errors.New("already closed") }))

	err := e.Close()
	assert.ErrorContains(t, err, "already closed")
	assert.Equal(t, []string{"cache", "client"}, order)
}
