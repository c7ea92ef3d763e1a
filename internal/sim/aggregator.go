package sim

import (
	"sort"
	"waste-sim-service/internal/domain"
)

// warningWeight is how much a warning-band bin counts towards collection
// efficiency compared to a good one.
const warningWeight = 0.7

// aggregate builds a Snapshot from the committed state. It only reads.
func aggregate(w *world, h *History, p Params, warning string) *domain.Snapshot {
	snap := &domain.Snapshot{
		Tick:        w.tick,
		SimTime:     w.now,
		Seed:        p.Seed,
		Bins:        make(map[string]domain.BinState, len(w.reg.binIDs)),
		Trucks:      make(map[string]domain.TruckState, len(w.reg.truckIDs)),
		Alerts:      []domain.Alert{},
		Composition: make(map[domain.Material]float64, len(domain.Materials())),
		Warning:     warning,
	}

	var fillSum float64
	for _, b := range w.reg.Bins() {
		state := binState(b, h, p, w.composition[b.ID])
		snap.Bins[b.ID] = state
		fillSum += b.FillPercent
		snap.Metrics.TotalDailyWasteKg += state.DailyWasteKg

		switch state.Status {
		case domain.BinCritical:
			snap.Metrics.CriticalBins++
		case domain.BinWarning:
			snap.Metrics.WarningBins++
		default:
			snap.Metrics.GoodBins++
		}
		if state.Status != domain.BinGood {
			snap.Alerts = append(snap.Alerts, domain.Alert{
				BinID:       b.ID,
				Area:        b.Area,
				FillPercent: b.FillPercent,
				Level:       state.Status,
			})
		}
	}

	total := len(w.reg.binIDs)
	snap.Metrics.TotalBins = total
	snap.Metrics.TotalCollections = w.collections
	if total > 0 {
		snap.Metrics.AvgFillPercent = fillSum / float64(total)
		snap.Metrics.CollectionEfficiency =
			(float64(snap.Metrics.GoodBins) + warningWeight*float64(snap.Metrics.WarningBins)) / float64(total) * 100
	}

	// Critical first, then fullest, then by ID.
	sort.SliceStable(snap.Alerts, func(i, j int) bool {
		a, b := snap.Alerts[i], snap.Alerts[j]
		if a.Level != b.Level {
			return a.Level == domain.BinCritical
		}
		if a.FillPercent != b.FillPercent {
			return a.FillPercent > b.FillPercent
		}
		return a.BinID < b.BinID
	})

	for _, t := range w.reg.Trucks() {
		snap.Trucks[t.TruckID] = truckState(t)
	}

	for _, m := range domain.Materials() {
		snap.Composition[m] = 0
	}
	for _, id := range w.reg.binIDs {
		comp := w.composition[id]
		for _, m := range domain.Materials() {
			snap.Composition[m] += comp[m]
		}
	}
	if totalKg := domain.TotalKg(snap.Composition); totalKg > 0 {
		var recyclable float64
		for _, m := range domain.Materials() {
			if m.Recyclable() {
				recyclable += snap.Composition[m]
			}
		}
		snap.Metrics.RecyclingRate = recyclable / totalKg * 100
	}

	return snap
}

func binState(b *domain.Bin, h *History, p Params, comp map[domain.Material]float64) domain.BinState {
	state := domain.BinState{
		BinID:          b.ID,
		Area:           b.Area,
		Location:       b.Location,
		CapacityLiters: b.CapacityLiters,
		FillPercent:    b.FillPercent,
		WasteType:      b.DominantWaste,
		Status:         domain.StatusFor(b.FillPercent, p.WarningThreshold, p.CollectionThreshold),
		DailyWasteKg:   domain.TotalKg(comp),
	}
	if b.LastCollection != nil {
		t := *b.LastCollection
		state.LastCollection = &t
	}
	if r, ok := h.Latest(b.ID); ok {
		state.LastReading = &r
	}
	return state
}

func truckState(t *domain.Truck) domain.TruckState {
	state := domain.TruckState{
		TruckID:     t.TruckID,
		Position:    t.Position,
		Status:      t.Status,
		Route:       append([]string{}, t.Route...),
		Collections: t.Collections,
	}
	if t.LastPlan != nil {
		summary := t.LastPlan.Summary()
		state.RouteSummary = &summary
	}
	return state
}
