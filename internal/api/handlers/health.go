package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
	Seed   int64  `json:"seed"`
	Tick   uint64 `json:"tick"`
}

// Health reports liveness along with the run being served.
func (h *SimHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status: "ok",
		Seed:   h.Sim.Seed(),
		Tick:   h.Sim.Snapshot().Tick,
	})
}
