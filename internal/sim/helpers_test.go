package sim

import (
	"errors"
	"testing"
	"waste-sim-service/internal/adapters/classifier"
	"waste-sim-service/internal/adapters/distance"
	"waste-sim-service/internal/adapters/landmarks"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
	"waste-sim-service/internal/services"

	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T, c ports.Classifier) Deps {
	t.Helper()
	provider, err := distance.NewHaversineProvider(0)
	require.NoError(t, err)
	if c == nil {
		c = classifier.NewLookupClassifier()
	}
	return Deps{
		Classifier: c,
		Planner:    services.NewNearestNeighborPlanner(provider),
		Distances:  provider,
		Landmarks:  landmarks.NewDefaultSource(),
	}
}

func newTestSim(t *testing.T, p Params, c ports.Classifier) *Simulation {
	t.Helper()
	s, err := New(p, testDeps(t, c))
	require.NoError(t, err)
	return s
}

// flakyClassifier fails every sample of one tick while armed.
type flakyClassifier struct {
	inner    ports.Classifier
	failTick uint64
	armed    bool
}

func (f *flakyClassifier) Name() string { return "flaky" }

func (f *flakyClassifier) Classify(s domain.Sample) (domain.Classification, error) {
	if f.armed && s.Tick == f.failTick {
		return domain.Classification{}, errors.New("model unavailable")
	}
	return f.inner.Classify(s)
}
