// Package pipeline runs the full ingest, enrich, score sequence and publishes
// the result as the latest snapshot.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/common"
	"github.com/ternarybob/vigilo/internal/enrich"
	"github.com/ternarybob/vigilo/internal/ingest"
	"github.com/ternarybob/vigilo/internal/models"
	"github.com/ternarybob/vigilo/internal/newsapi"
	"github.com/ternarybob/vigilo/internal/scoring"
	"github.com/ternarybob/vigilo/internal/services/cache"
	badgerstorage "github.com/ternarybob/vigilo/internal/storage/badger"
)

// Service wires ingestion, ticker normalization, news enrichment and scoring
// into a single Run. Stages after ingestion never fail the run; each record
// carries its own degradation markers instead.
type Service struct {
	ingester  *ingest.Service
	tickers   *enrich.TickerNormalizer
	news      *enrich.NewsEnricher
	model     *scoring.Model
	snapshots *badgerstorage.SnapshotStorage
	logger    arbor.ILogger
	now       func() time.Time
}

// New creates a pipeline service. snapshots may be nil for one-shot runs that
// do not persist their output.
func New(ingester *ingest.Service, tickers *enrich.TickerNormalizer, news *enrich.NewsEnricher,
	model *scoring.Model, snapshots *badgerstorage.SnapshotStorage, logger arbor.ILogger) *Service {
	return &Service{
		ingester:  ingester,
		tickers:   tickers,
		news:      news,
		model:     model,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one full refresh. A fatal fetch or parse error is returned to
// the caller and recorded in an error snapshot so the serving layer can show
// it inline; a previously stored good snapshot is left untouched.
func (s *Service) Run(ctx context.Context) (*models.Snapshot, error) {
	runID := uuid.New().String()
	started := s.now()

	s.logger.Info().
		Str("run_id", runID).
		Msg("Starting pipeline run")

	ds, err := s.ingester.FetchTrades(ctx)
	if err != nil {
		s.logger.Warn().
			Str("run_id", runID).
			Err(err).
			Msg("Pipeline run failed during ingestion")
		return &models.Snapshot{
			RunID:     runID,
			CreatedAt: started,
			Dataset:   models.Dataset{FetchedAt: started},
			Error:     err.Error(),
		}, err
	}

	ds = s.tickers.Normalize(ctx, ds)
	ds = s.news.Enrich(ctx, ds)
	ds = s.model.Score(ds)

	snapshot := &models.Snapshot{
		RunID:     runID,
		CreatedAt: started,
		Dataset:   ds,
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveLatest(snapshot); err != nil {
			s.logger.Warn().
				Str("run_id", runID).
				Err(err).
				Msg("Failed to persist snapshot, serving from memory only")
		}
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("records", len(ds.Records)).
		Int("warnings", len(ds.Warnings)).
		Str("duration", s.now().Sub(started).String()).
		Msg("Pipeline run complete")

	return snapshot, nil
}

// Latest returns the most recently stored snapshot, or nil when the store is
// empty or persistence is disabled.
func (s *Service) Latest() (*models.Snapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.LoadLatest()
}

// FromConfig assembles a pipeline service from application configuration and
// optional storage. db may be nil, in which case both the snapshot store and
// the persistent news cache are skipped.
func FromConfig(cfg *common.Config, db *badgerstorage.BadgerDB, logger arbor.ILogger) (*Service, error) {
	ingester := ingest.NewService(cfg.Ingest, logger)

	tickerMemo := cache.NewMemo(cfg.News.CacheTTL, nil)
	tickers := enrich.NewTickerNormalizer(enrich.StubResolver{}, tickerMemo, logger)

	client := newsapi.NewClient(cfg.News.APIKey,
		newsapi.WithLogger(logger),
		newsapi.WithRateLimit(cfg.News.RateLimit))

	var store enrich.ResponseCache
	var snapshots *badgerstorage.SnapshotStorage
	if db != nil {
		store = badgerstorage.NewNewsCache(db, cfg.News.CacheTTL, logger)
		snapshots = badgerstorage.NewSnapshotStorage(db, logger)
	}

	newsMemo := cache.NewMemo(cfg.News.CacheTTL, nil)
	news := enrich.NewNewsEnricher(client, newsMemo, store, logger,
		cfg.News.WindowDays, cfg.News.MaxHeadlines, cfg.News.PageSize, cfg.News.Concurrency)

	model, err := scoring.NewModel(scoring.DefaultWeights, logger)
	if err != nil {
		return nil, err
	}

	return New(ingester, tickers, news, model, snapshots, logger), nil
}
