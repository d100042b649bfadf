// Package app wires configuration, storage, services and HTTP handlers into
// one container the server and CLI share.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/common"
	"github.com/ternarybob/vigilo/internal/handlers"
	"github.com/ternarybob/vigilo/internal/pipeline"
	"github.com/ternarybob/vigilo/internal/scheduler"
	badgerstorage "github.com/ternarybob/vigilo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB        *badgerstorage.BadgerDB
	Pipeline  *pipeline.Service
	Scheduler *scheduler.Service

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	TradeHandler   *handlers.TradeHandler
	ExportHandler  *handlers.ExportHandler
	RefreshHandler *handlers.RefreshHandler
	StatusHandler  *handlers.StatusHandler

	ctx       context.Context
	cancelCtx context.CancelFunc
}

// New creates the application container. The scheduler is constructed but not
// started; callers decide whether background refresh runs.
func New(ctx context.Context, cfg *common.Config) (*App, error) {
	logger := common.GetLogger()
	ctx, cancel := context.WithCancel(ctx)

	db, err := badgerstorage.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	pipe, err := pipeline.FromConfig(cfg, db, logger)
	if err != nil {
		cancel()
		db.Close()
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	sched := scheduler.New(pipe, cfg.Scheduler.Schedule, logger)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Pipeline:  pipe,
		Scheduler: sched,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	a.APIHandler = handlers.NewAPIHandler()
	a.TradeHandler = handlers.NewTradeHandler(pipe, logger)
	a.ExportHandler = handlers.NewExportHandler(pipe, logger)
	a.RefreshHandler = handlers.NewRefreshHandler(sched, logger)
	a.StatusHandler = handlers.NewStatusHandler(pipe, sched, logger)

	return a, nil
}

// Context returns the application lifetime context.
func (a *App) Context() context.Context {
	return a.ctx
}

// StartScheduler begins background refresh when enabled in configuration.
func (a *App) StartScheduler() error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Info().Msg("Scheduler disabled by configuration")
		return nil
	}
	return a.Scheduler.Start(a.ctx)
}

// Close stops background work and releases storage.
func (a *App) Close() error {
	a.cancelCtx()
	a.Scheduler.Stop()

	if err := a.DB.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
		return err
	}
	return nil
}
