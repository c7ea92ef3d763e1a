package sim

import (
	"testing"
	"waste-sim-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func readingsAt(tick uint64, ids ...string) []domain.Reading {
	out := make([]domain.Reading, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Reading{BinID: id, Tick: tick, FillPercent: float64(tick)})
	}
	return out
}

func TestHistoryRetention(t *testing.T) {
	h := NewHistory(2)
	for tick := uint64(1); tick <= 4; tick++ {
		h.Append(tick, readingsAt(tick, "BIN001", "BIN002"))
	}

	assert.Equal(t, 4, h.Len())
	for _, r := range h.All() {
		assert.GreaterOrEqual(t, r.Tick, uint64(3))
	}

	latest, ok := h.Latest("BIN002")
	assert.True(t, ok)
	assert.Equal(t, uint64(4), latest.Tick)
}

func TestHistoryUnbounded(t *testing.T) {
	h := NewHistory(0)
	for tick := uint64(1); tick <= 5; tick++ {
		h.Append(tick, readingsAt(tick, "BIN001"))
	}
	assert.Equal(t, 5, h.Len())
}

func TestHistoryForBin(t *testing.T) {
	h := NewHistory(0)
	for tick := uint64(1); tick <= 5; tick++ {
		h.Append(tick, readingsAt(tick, "BIN001", "BIN002"))
	}

	all := h.ForBin("BIN001", 0)
	assert.Len(t, all, 5)

	last := h.ForBin("BIN001", 2)
	if assert.Len(t, last, 2) {
		assert.Equal(t, uint64(4), last[0].Tick)
		assert.Equal(t, uint64(5), last[1].Tick)
	}

	assert.Empty(t, h.ForBin("BIN404", 3))
	assert.NotNil(t, h.ForBin("BIN404", 3))
}
