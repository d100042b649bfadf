// Package scheduler triggers periodic pipeline refreshes on a cron schedule.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigilo/internal/pipeline"
)

// Service owns the cron instance driving background refreshes. A run that is
// still in flight when the next tick fires makes the tick a no-op.
type Service struct {
	pipeline *pipeline.Service
	schedule string
	logger   arbor.ILogger

	cron  *cron.Cron
	token chan struct{} // held by whichever refresh is in flight

	mu        sync.RWMutex
	lastRun   time.Time
	lastError string
}

// New creates a scheduler for the given cron schedule, e.g. "@every 10m".
func New(pipe *pipeline.Service, schedule string, logger arbor.ILogger) *Service {
	s := &Service{
		pipeline: pipe,
		schedule: schedule,
		logger:   logger,
		token:    make(chan struct{}, 1),
	}
	s.token <- struct{}{}
	return s
}

// Start registers the refresh job and begins ticking. Returns an error when
// the schedule expression does not parse.
func (s *Service) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.refresh(ctx) }); err != nil {
		return err
	}
	s.cron = c
	c.Start()

	s.logger.Info().
		Str("schedule", s.schedule).
		Msg("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for an in-flight run to finish.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	<-s.token
	s.token <- struct{}{}
	s.logger.Info().Msg("Scheduler stopped")
}

// RunNow triggers an immediate refresh, subject to the same overlap guard as
// scheduled ticks. Returns false when a run was already in progress.
func (s *Service) RunNow(ctx context.Context) bool {
	select {
	case <-s.token:
	default:
		return false
	}
	defer func() { s.token <- struct{}{} }()

	s.run(ctx)
	return true
}

func (s *Service) refresh(ctx context.Context) {
	select {
	case <-s.token:
	default:
		s.logger.Warn().Msg("Skipping scheduled refresh, previous run still in progress")
		return
	}
	defer func() { s.token <- struct{}{} }()

	s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	_, err := s.pipeline.Run(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()
}

// LastRun reports the completion time of the most recent refresh and the
// error it ended with, empty when it succeeded. The zero time means no
// refresh has completed yet.
func (s *Service) LastRun() (time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastError
}
