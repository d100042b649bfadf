package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigilo/internal/models"
)

// SnapshotSource supplies the latest stored pipeline output.
type SnapshotSource interface {
	Latest() (*models.Snapshot, error)
}

// TradeHandler serves the scored trade records with optional filtering.
type TradeHandler struct {
	snapshots SnapshotSource
	logger    arbor.ILogger
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(snapshots SnapshotSource, logger arbor.ILogger) *TradeHandler {
	return &TradeHandler{
		snapshots: snapshots,
		logger:    logger,
	}
}

// ListTradesHandler handles GET /api/trades. Supported query parameters:
// sector (exact match, "All" or absent means no filter), score_min,
// score_max, date_from, date_to (inclusive, YYYY-MM-DD).
func (h *TradeHandler) ListTradesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to load latest snapshot")
		WriteError(w, http.StatusInternalServerError, "failed to load latest snapshot")
		return
	}
	if snapshot == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"records": []models.TradeRecord{},
			"total":   0,
		})
		return
	}

	records := filterRecords(snapshot.Dataset.Records, r)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":     snapshot.RunID,
		"fetched_at": snapshot.Dataset.FetchedAt,
		"records":    records,
		"total":      len(records),
		"error":      snapshot.Error,
	})
}

func filterRecords(records []models.TradeRecord, r *http.Request) []models.TradeRecord {
	q := r.URL.Query()

	sector := q.Get("sector")
	scoreMin, hasMin := queryFloat(r, "score_min")
	scoreMax, hasMax := queryFloat(r, "score_max")

	var dateFrom, dateTo *time.Time
	if from, err := time.Parse("2006-01-02", q.Get("date_from")); err == nil {
		dateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("date_to")); err == nil {
		dateTo = &to
	}

	out := make([]models.TradeRecord, 0, len(records))
	for _, rec := range records {
		if sector != "" && sector != "All" && rec.Sector != sector {
			continue
		}
		if hasMin && (rec.Score == nil || *rec.Score < scoreMin) {
			continue
		}
		if hasMax && (rec.Score == nil || *rec.Score > scoreMax) {
			continue
		}
		if dateFrom != nil && (rec.TradeDate == nil || rec.TradeDate.Before(*dateFrom)) {
			continue
		}
		if dateTo != nil && (rec.TradeDate == nil || rec.TradeDate.After(*dateTo)) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
