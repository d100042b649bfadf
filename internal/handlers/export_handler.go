package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigilo/internal/export"
)

// ExportHandler streams the latest snapshot as a CSV download.
type ExportHandler struct {
	snapshots SnapshotSource
	logger    arbor.ILogger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(snapshots SnapshotSource, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		snapshots: snapshots,
		logger:    logger,
	}
}

// ExportCSVHandler handles GET /api/trades/export
func (h *ExportHandler) ExportCSVHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to load latest snapshot for export")
		WriteError(w, http.StatusInternalServerError, "failed to load latest snapshot")
		return
	}
	if snapshot == nil {
		WriteError(w, http.StatusNotFound, "no snapshot available yet")
		return
	}

	filename := fmt.Sprintf("trades_%s.csv", snapshot.CreatedAt.Format("20060102T150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteCSV(w, snapshot.Dataset); err != nil {
		// Headers are already sent; all we can do is log.
		h.logger.Warn().Err(err).Msg("Failed to stream CSV export")
	}
}
