package api

import (
	"net/http"
	"waste-sim-service/internal/api/handlers"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// metrics may be nil, in which case /metrics is not served.
func NewRouter(s handlers.Simulator, metrics http.Handler) http.Handler {
	r := mux.NewRouter()

	h := &handlers.SimHandler{Sim: s}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", h.Snapshot).Methods(http.MethodGet)
	r.HandleFunc("/ticks", h.Ticks).Methods(http.MethodPost)
	r.HandleFunc("/classify", h.Classify).Methods(http.MethodPost)
	r.HandleFunc("/routes", h.Routes).Methods(http.MethodPost)
	r.HandleFunc("/trucks/{id}/dispatch", h.Dispatch).Methods(http.MethodPost)
	r.HandleFunc("/bins/{id}", h.Bin).Methods(http.MethodGet)
	r.HandleFunc("/bins/{id}/readings", h.Readings).Methods(http.MethodGet)
	r.HandleFunc("/reset", h.Reset).Methods(http.MethodPost)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	r.Use(requestIDMiddleware, loggingMiddleware)
	return r
}
