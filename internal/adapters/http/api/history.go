// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	repository "github.com/nametrends/nametrends/internal/adapters/repository"
	service "github.com/nametrends/nametrends/internal/app"
	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/types"
)

// HistoryDependencies defines the interface for name history reads.
type HistoryDependencies interface {
	History(ctx context.Context, name string, sex model.Sex) (types.NameHistory, error)
}

// HistoryHandler handles name history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /api/names/{Name}-{Sex} requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/names/")
	name, sex, err := parseSlug(slug)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	history, err := h.deps.History(r.Context(), name, sex)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, service.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// parseSlug splits a page slug like "Olivia-F" into its name and sex.
func parseSlug(slug string) (string, model.Sex, error) {
	if slug == "" || strings.Contains(slug, "/") {
		return "", "", fmt.Errorf("%w: expected {name}-{sex}", ErrBadRequest)
	}

	cut := strings.LastIndex(slug, "-")
	if cut < 1 || cut == len(slug)-1 {
		return "", "", fmt.Errorf("%w: expected {name}-{sex}", ErrBadRequest)
	}

	sex, err := model.ParseSex(slug[cut+1:])
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return slug[:cut], sex, nil
}
