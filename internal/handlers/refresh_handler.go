package handlers

import (
	"context"
	"net/http"

	"github.com/ternarybob/arbor"
)

// Refresher triggers a pipeline run, reporting false when one is already
// in progress.
type Refresher interface {
	RunNow(ctx context.Context) bool
}

// RefreshHandler exposes on-demand pipeline refresh.
type RefreshHandler struct {
	refresher Refresher
	logger    arbor.ILogger
}

// NewRefreshHandler creates a new RefreshHandler
func NewRefreshHandler(refresher Refresher, logger arbor.ILogger) *RefreshHandler {
	return &RefreshHandler{
		refresher: refresher,
		logger:    logger,
	}
}

// RefreshHandler handles POST /api/refresh. The run executes synchronously
// so the caller sees fresh data on the next read.
func (h *RefreshHandler) RefreshTradesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if !h.refresher.RunNow(r.Context()) {
		WriteJSON(w, http.StatusConflict, map[string]string{
			"status":  "busy",
			"message": "a refresh is already in progress",
		})
		return
	}

	WriteSuccess(w, "refresh complete")
}
