package models

import "time"

// Snapshot is the cached output of one full pipeline run. The serving layer
// reads the latest snapshot instead of re-running ingestion on every request.
type Snapshot struct {
	RunID     string    `json:"run_id" badgerhold:"key"`
	CreatedAt time.Time `json:"created_at"`
	Dataset   Dataset   `json:"dataset"`

	// Error carries a fatal ingestion failure for inline display. When set,
	// Dataset is empty and the previous snapshot (if any) stays in the store.
	Error string `json:"error,omitempty"`
}

// Age returns how old the snapshot is at the given instant.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}
