package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"waste-sim-service/internal/api/dto"
	"waste-sim-service/internal/app/engine"
	"waste-sim-service/internal/domain"
)

// Simulator is the subset of the engine the HTTP layer drives.
type Simulator interface {
	Snapshot() *domain.Snapshot
	TickN(ctx context.Context, n int) (engine.TickSummary, error)
	Classify(sample domain.Sample) (domain.Classification, error)
	PlanRoute(ctx context.Context, truckID string, binIDs []string) (*domain.RoutePlan, error)
	AssignRoute(ctx context.Context, truckID string, binIDs []string) (*domain.RoutePlan, error)
	Dispatch(ctx context.Context, truckID string) (*domain.RoutePlan, error)
	Bin(id string) (domain.BinState, error)
	Readings(binID string, limit int) ([]domain.Reading, error)
	Reset(ctx context.Context, seed int64) error
	Seed() int64
}

type SimHandler struct {
	Sim Simulator
}

func (h *SimHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Sim.Snapshot())
}

// Ticks advances the simulation by count ticks (default 1).
func (h *SimHandler) Ticks(w http.ResponseWriter, r *http.Request) {
	var req dto.TickRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	count := 1
	if req.Count != nil {
		count = *req.Count
	}
	if count < 1 || count > engine.MaxTicksPerCall {
		badRequestf(w, r, "count must be between 1 and %d", engine.MaxTicksPerCall)
		return
	}

	sum, err := h.Sim.TickN(r.Context(), count)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TickResponse{
		Requested:   sum.Requested,
		Committed:   sum.Committed,
		Skipped:     sum.Skipped,
		Collections: sum.Collections,
		Snapshot:    h.Sim.Snapshot(),
	})
}

// Classify runs the configured classifier on a caller-supplied sample.
func (h *SimHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req dto.ClassifyRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Composition) == 0 {
		writeError(w, r, http.StatusBadRequest, "composition is required")
		return
	}
	if req.Jitter < 0 || req.Jitter >= 1 {
		writeError(w, r, http.StatusBadRequest, "jitter must be in [0,1)")
		return
	}

	known := make(map[domain.Material]bool, len(domain.Materials()))
	for _, m := range domain.Materials() {
		known[m] = true
	}
	comp := make(map[domain.Material]float64, len(req.Composition))
	for name, kg := range req.Composition {
		m := domain.Material(strings.ToLower(strings.TrimSpace(name)))
		if !known[m] {
			badRequestf(w, r, "unknown material %q", name)
			return
		}
		if kg < 0 {
			badRequestf(w, r, "weight for %s must be non-negative", m)
			return
		}
		comp[m] += kg
	}

	c, err := h.Sim.Classify(domain.Sample{BinID: req.BinID, Composition: comp, Jitter: req.Jitter})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ClassifyResponse{Label: c.Label, Confidence: c.Confidence})
}

// Routes orders the requested bins for a truck and optionally assigns the route.
func (h *SimHandler) Routes(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.TruckID) == "" {
		writeError(w, r, http.StatusBadRequest, "truck_id is required")
		return
	}

	plan := h.Sim.PlanRoute
	if req.Assign {
		plan = h.Sim.AssignRoute
	}
	p, err := plan(r.Context(), req.TruckID, req.BinIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(p, req.Assign))
}

// Dispatch gives an idle truck the due bins nobody is heading to yet.
func (h *SimHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	p, err := h.Sim.Dispatch(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(p, true))
}

func (h *SimHandler) Bin(w http.ResponseWriter, r *http.Request) {
	b, err := h.Sim.Bin(pathVar(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

// Readings lists the newest retained readings of a bin, oldest first.
func (h *SimHandler) Readings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	id := pathVar(r, "id")
	readings, err := h.Sim.Readings(id, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ReadingsResponse{BinID: id, Readings: readings})
}

// Reset reseeds the simulation. Without a seed the current one is reused.
func (h *SimHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	seed := h.Sim.Seed()
	if len(req.Seed) > 0 && string(req.Seed) != "null" {
		parsed, err := domain.ParseSeed(seedText(req.Seed))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		seed = parsed
	}

	if err := h.Sim.Reset(r.Context(), seed); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.Sim.Snapshot())
}

// seedText unwraps a JSON string; numbers and anything else are passed
// through verbatim so ParseSeed decides.
func seedText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
