// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/nametrends/nametrends/internal/app"
)

// RebuildDependencies defines the interface for triggering builds.
type RebuildDependencies interface {
	TriggerBuild(ctx context.Context) error
	Building() bool
}

// RebuildHandler handles rebuild requests.
type RebuildHandler struct {
	deps RebuildDependencies
}

// NewRebuildHandler creates a new rebuild handler.
func NewRebuildHandler(deps RebuildDependencies) *RebuildHandler {
	return &RebuildHandler{deps: deps}
}

// HandlePostRebuild handles POST /api/rebuild requests. A rebuild already in
// flight is reported as a conflict rather than queued.
func (h *RebuildHandler) HandlePostRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := h.deps.TriggerBuild(r.Context()); err != nil {
		switch {
		case errors.Is(err, service.ErrBuildInFlight):
			writeError(w, http.StatusConflict, "build_in_flight", err)
		case errors.Is(err, service.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, buildResponse{Status: "started"})
}
