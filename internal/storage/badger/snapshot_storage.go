package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/vigilo/internal/models"
)

// latestSnapshotKey is the fixed key under which the most recent pipeline
// snapshot is stored. Only the latest run is kept; history is not a feature
// of the cache.
const latestSnapshotKey = "latest"

// SnapshotStorage persists the latest scored snapshot for the serving layer.
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a new SnapshotStorage instance
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) *SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

// SaveLatest stores the snapshot as the current one, replacing any previous.
func (s *SnapshotStorage) SaveLatest(snapshot *models.Snapshot) error {
	if err := s.db.Store().Upsert(latestSnapshotKey, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.logger.Debug().
		Str("run_id", snapshot.RunID).
		Int("records", len(snapshot.Dataset.Records)).
		Msg("Snapshot saved")
	return nil
}

// LoadLatest returns the current snapshot, or (nil, nil) when none exists.
// Decode failures are logged and treated as a miss; the cache is advisory.
func (s *SnapshotStorage) LoadLatest() (*models.Snapshot, error) {
	var snapshot models.Snapshot
	err := s.db.Store().Get(latestSnapshotKey, &snapshot)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load snapshot, treating as empty cache")
		return nil, nil
	}
	return &snapshot, nil
}
