package classifier

import (
	"testing"
	"waste-sim-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comp(kv ...any) map[domain.Material]float64 {
	m := map[domain.Material]float64{}
	for i := 0; i < len(kv); i += 2 {
		m[kv[i].(domain.Material)] = kv[i+1].(float64)
	}
	return m
}

func TestLookupClassifierLabels(t *testing.T) {
	tests := map[string]struct {
		composition map[domain.Material]float64
		want        domain.WasteCategory
	}{
		"hazardous wins over everything": {
			composition: comp(domain.MaterialOrganic, 80.0, domain.MaterialHazardous, 10.0),
			want:        domain.WasteHazardous,
		},
		"organic dominant": {
			composition: comp(domain.MaterialOrganic, 70.0, domain.MaterialPaper, 20.0),
			want:        domain.WasteOrganic,
		},
		"recyclable dominant": {
			composition: comp(domain.MaterialPlastic, 40.0, domain.MaterialGlass, 30.0, domain.MaterialOrganic, 20.0),
			want:        domain.WasteRecyclable,
		},
		"mixed is general": {
			composition: comp(domain.MaterialPlastic, 50.0, domain.MaterialOrganic, 50.0),
			want:        domain.WasteGeneral,
		},
		"empty is general": {
			composition: comp(),
			want:        domain.WasteGeneral,
		},
	}

	c := NewLookupClassifier()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := c.Classify(domain.Sample{BinID: "BIN001", Composition: tc.composition, Jitter: 0.3})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Label)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestLookupClassifierConfidenceRange(t *testing.T) {
	c := NewLookupClassifier()
	for _, jitter := range []float64{0, 0.5, 0.999999, -3, 7} {
		got, err := c.Classify(domain.Sample{
			Composition: comp(domain.MaterialPaper, 90.0, domain.MaterialMetal, 10.0),
			Jitter:      jitter,
		})
		require.NoError(t, err)
		assert.True(t, got.Label.Valid())
		assert.GreaterOrEqual(t, got.Confidence, 0.85)
		assert.LessOrEqual(t, got.Confidence, 0.99)
	}
}

func TestLookupClassifierRejectsNegativeWeights(t *testing.T) {
	_, err := NewLookupClassifier().Classify(domain.Sample{Composition: comp(domain.MaterialGlass, -1.0)})
	assert.Error(t, err)
}

func TestRandomClassifierIsSeeded(t *testing.T) {
	a := NewRandomClassifier(42)
	b := NewRandomClassifier(42)

	for i := 0; i < 50; i++ {
		ga, err := a.Classify(domain.Sample{})
		require.NoError(t, err)
		gb, err := b.Classify(domain.Sample{})
		require.NoError(t, err)

		assert.Equal(t, ga, gb)
		assert.True(t, ga.Label.Valid())
		assert.GreaterOrEqual(t, ga.Confidence, 0.0)
		assert.LessOrEqual(t, ga.Confidence, 1.0)
	}
	assert.Equal(t, "random", a.Name())
}

func TestRandomClassifierReseedRestartsStream(t *testing.T) {
	c := NewRandomClassifier(7)

	first := make([]domain.Classification, 10)
	for i := range first {
		got, err := c.Classify(domain.Sample{})
		require.NoError(t, err)
		first[i] = got
	}

	c.Reseed(7)
	for i := range first {
		got, err := c.Classify(domain.Sample{})
		require.NoError(t, err)
		assert.Equal(t, first[i], got, "draw %d", i)
	}
}
