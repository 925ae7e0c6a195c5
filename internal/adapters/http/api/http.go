// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/contestboard/internal/app"
	"github.com/okian/contestboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the session implementation.
type Dependencies interface {
	// Compute refreshes the cache as needed and builds every standings view.
	Compute(ctx context.Context, req service.Request) (service.Views, error)

	// Cache operations expose and reset loaded contests.
	Contest(ctx context.Context, contestID string) (model.ContestData, error)
	Invalidate(ctx context.Context, contestID string) bool
	Clear(ctx context.Context) int
}

// Server wires HTTP routes for the standings API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	standingsHandler *StandingsHandler
	contestsHandler  *ContestsHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	defaults service.Request
}

// WithRequestDefaults seeds every standings request before its body is
// decoded, so omitted fields keep the process configuration.
func WithRequestDefaults(req service.Request) ServerOption {
	return func(c *serverConfig) {
		c.defaults = req
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	var cfg serverConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		standingsHandler: NewStandingsHandler(deps, cfg.defaults),
		contestsHandler:  NewContestsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandlePostStandings, "standings"))
	mux.HandleFunc("/contests", MetricsMiddleware(s.contestsHandler.HandleClear, "contests"))
	mux.HandleFunc("/contests/", MetricsMiddleware(s.contestsHandler.HandleContest, "contest"))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

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

// badRequest wraps err so callers can tell input problems apart.
func badRequest(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err)
}

// isNotFound translates session cache misses to 404.
func isNotFound(err error) bool {
	return errors.Is(err, service.ErrNotCached) || errors.Is(err, ErrNotFound)
}
