package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweeper closes activity log sessions that went idle.
type SessionSweeper interface {
	CloseIdleSessions(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron      *cron.Cron
	sweeper   SessionSweeper
	sweepSpec string
	logger    *zap.Logger
}

func NewScheduler(sweepSpec string, sweeper SessionSweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(),
		sweeper:   sweeper,
		sweepSpec: sweepSpec,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron loop. An invalid spec is
// reported instead of silently skipping the job.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.sweepSpec, s.closeIdleSessions); err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", s.sweepSpec, err)
	}
	s.logger.Info("starting scheduler", zap.String("session_sweep", s.sweepSpec))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) closeIdleSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	closed, err := s.sweeper.CloseIdleSessions(ctx)
	if err != nil {
		s.logger.Error("failed to close idle sessions", zap.Error(err))
		return
	}
	if closed > 0 {
		s.logger.Info("closed idle sessions", zap.Int64("count", closed))
	}
}
