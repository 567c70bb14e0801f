// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	service "github.com/nametrends/nametrends/internal/app"
	"github.com/nametrends/nametrends/internal/domain/types"
)

// Default limits for the trending endpoint.
const (
	defaultTrendingLimit = 100
	defaultMaxLimit      = 100
)

// TrendingDependencies defines the interface for trending list reads.
type TrendingDependencies interface {
	Trending(ctx context.Context, limit int) ([]types.TrendingEntry, error)
}

// TrendingHandler handles trending list requests.
type TrendingHandler struct {
	deps     TrendingDependencies
	maxLimit int
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(deps TrendingDependencies, maxLimit int) *TrendingHandler {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &TrendingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTrending handles GET /api/trending?limit=N requests.
func (h *TrendingHandler) HandleGetTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultTrendingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			fmt.Errorf("%w: limit above %d", ErrBadRequest, h.maxLimit))
		return
	}

	entries, err := h.deps.Trending(r.Context(), n)
	if err != nil {
		if errors.Is(err, service.ErrNotReady) {
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
