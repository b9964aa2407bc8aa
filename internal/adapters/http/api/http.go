// Package api exposes the simulation engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/promotion"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	SimulationRunner
	SchemaProvider
	StatsProvider
}

// SimulationRunner runs one simulation.
type SimulationRunner interface {
	RunSimulation(ctx context.Context, mode promotion.Mode, opts ...service.RunOption) (*service.Simulation, error)
}

// SchemaProvider describes skills, layers, and modes.
type SchemaProvider interface {
	Schema(ctx context.Context) service.Schema
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() service.Stats
}

// Server wires HTTP routes for the simulation API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	simulateHandler *SimulateHandler
	schemaHandler   *SchemaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) (*Server, error) {
	simulate, err := NewSimulateHandler(deps)
	if err != nil {
		return nil, err
	}
	return &Server{
		healthHandler:   NewHealthHandler(nil),
		statsHandler:    NewStatsHandler(deps),
		simulateHandler: simulate,
		schemaHandler:   NewSchemaHandler(deps),
	}, nil
}

// Register attaches all HTTP routes to mux. Every route is GET-only and
// instrumented under its path without the leading slash.
func (s *Server) Register(mux *http.ServeMux) {
	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/healthz", s.healthHandler.HandleHealth},
		{"/stats", s.statsHandler.HandleStats},
		{"/schema", s.schemaHandler.HandleSchema},
		{"/simulate", s.simulateHandler.HandleSimulate},
	}
	for _, rt := range routes {
		mux.Handle(rt.path, MetricsMiddleware(strings.TrimPrefix(rt.path, "/"), getOnly(rt.handler)))
	}
}

// getOnly answers anything but GET and HEAD with 405.
func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure picks the status from the error kind.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
