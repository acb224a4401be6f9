// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/charcache/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Filter(ctx context.Context, opts model.QueryOptions) ([]model.Character, error)
	DistinctValues(ctx context.Context, field model.Field) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// Server wires HTTP routes for the read-only character API.
type Server struct {
	healthHandler     *HealthHandler
	charactersHandler *CharactersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		charactersHandler: NewCharactersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /characters", MetricsMiddleware(s.charactersHandler.HandleList, "characters"))
	mux.HandleFunc("GET /characters/count", MetricsMiddleware(s.charactersHandler.HandleCount, "characters_count"))
	mux.HandleFunc("GET /characters/values/{field}", MetricsMiddleware(s.charactersHandler.HandleValues, "characters_values"))
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
