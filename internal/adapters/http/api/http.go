// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Trending returns up to limit entries from the latest trending list.
	Trending(ctx context.Context, limit int) ([]types.TrendingEntry, error)

	// History returns the rank-by-year series for a (name, sex) pair.
	History(ctx context.Context, name string, sex model.Sex) (types.NameHistory, error)

	// TriggerBuild starts a rebuild in the background.
	TriggerBuild(ctx context.Context) error

	// Building reports whether a build is currently running.
	Building() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	trendingHandler *TrendingHandler
	historyHandler  *HistoryHandler
	rebuildHandler  *RebuildHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		trendingHandler: NewTrendingHandler(deps, maxLimit),
		historyHandler:  NewHistoryHandler(deps),
		rebuildHandler:  NewRebuildHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/trending", MetricsMiddleware(s.trendingHandler.HandleGetTrending, "trending"))
	mux.HandleFunc("/api/names/", MetricsMiddleware(s.historyHandler.HandleGetHistory, "names"))
	mux.HandleFunc("/api/rebuild", MetricsMiddleware(s.rebuildHandler.HandlePostRebuild, "rebuild"))
}

type buildResponse struct {
	Status string `json:"status"`
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
