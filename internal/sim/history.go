package sim

import (
	"waste-sim-service/internal/domain"
)

// History is the append-only reading log. Readings are never mutated;
// retention only drops whole ticks from the front.
type History struct {
	readings       []domain.Reading
	latest         map[string]domain.Reading
	retentionTicks int
}

func NewHistory(retentionTicks int) *History {
	return &History{
		latest:         make(map[string]domain.Reading),
		retentionTicks: retentionTicks,
	}
}

// Append records one tick worth of readings and applies retention.
func (h *History) Append(tick uint64, readings []domain.Reading) {
	h.readings = append(h.readings, readings...)
	for _, r := range readings {
		h.latest[r.BinID] = r
	}

	if h.retentionTicks <= 0 || tick <= uint64(h.retentionTicks) {
		return
	}
	oldest := tick - uint64(h.retentionTicks) + 1
	cut := 0
	for cut < len(h.readings) && h.readings[cut].Tick < oldest {
		cut++
	}
	if cut > 0 {
		h.readings = append([]domain.Reading(nil), h.readings[cut:]...)
	}
}

// Latest returns the most recent reading for a bin.
// It survives retention so snapshots always carry the last known value.
func (h *History) Latest(binID string) (domain.Reading, bool) {
	r, ok := h.latest[binID]
	return r, ok
}

// ForBin returns up to limit of the newest readings for a bin, oldest first.
// A limit of zero or less returns all retained readings.
func (h *History) ForBin(binID string, limit int) []domain.Reading {
	out := []domain.Reading{}
	for _, r := range h.readings {
		if r.BinID == binID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (h *History) All() []domain.Reading {
	return append([]domain.Reading(nil), h.readings...)
}

func (h *History) Len() int { return len(h.readings) }
