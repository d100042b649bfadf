package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
)

// LastRunReporter reports when the scheduler last completed and with what error.
type LastRunReporter interface {
	LastRun() (time.Time, string)
}

// StatusHandler reports dataset provenance and pipeline health.
type StatusHandler struct {
	snapshots SnapshotSource
	scheduler LastRunReporter // optional
	logger    arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler. scheduler may be nil when
// background refresh is disabled.
func NewStatusHandler(snapshots SnapshotSource, scheduler LastRunReporter, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		snapshots: snapshots,
		scheduler: scheduler,
		logger:    logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := map[string]interface{}{
		"has_snapshot": false,
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to load latest snapshot for status")
		WriteError(w, http.StatusInternalServerError, "failed to load latest snapshot")
		return
	}
	if snapshot != nil {
		newsStatuses := map[string]int{}
		for _, rec := range snapshot.Dataset.Records {
			newsStatuses[string(rec.NewsStatus)]++
		}

		status["has_snapshot"] = true
		status["run_id"] = snapshot.RunID
		status["created_at"] = snapshot.CreatedAt
		status["age_seconds"] = int(snapshot.Age(time.Now()).Seconds())
		status["source_url"] = snapshot.Dataset.SourceURL
		status["header_hash"] = snapshot.Dataset.HeaderHash
		status["row_count"] = len(snapshot.Dataset.Records)
		status["warnings"] = snapshot.Dataset.Warnings
		status["news_statuses"] = newsStatuses
		if snapshot.Error != "" {
			status["error"] = snapshot.Error
		}
	}

	if h.scheduler != nil {
		lastRun, lastErr := h.scheduler.LastRun()
		sched := map[string]interface{}{}
		if !lastRun.IsZero() {
			sched["last_run"] = lastRun
		}
		if lastErr != "" {
			sched["last_error"] = lastErr
		}
		status["scheduler"] = sched
	}

	WriteJSON(w, http.StatusOK, status)
}
