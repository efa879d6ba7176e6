package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic retention purge of stored evaluations.
type Scheduler struct {
	cron         *cron.Cron
	engine       *Engine
	retentionAge time.Duration
	log          *slog.Logger
}

// NewScheduler creates a Scheduler that purges evaluations older than
// retentionAge every interval.
func NewScheduler(
	eng *Engine,
	interval time.Duration,
	retentionAge time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:         c,
		engine:       eng,
		retentionAge: retentionAge,
		log:          log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.runPurge); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runPurge() {
	ctx := context.Background()
	if _, err := s.engine.PurgeOldEvaluations(ctx, s.retentionAge); err != nil {
		s.log.Error("scheduled purge failed", "error", err)
	}
}
