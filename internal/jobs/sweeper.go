// Package jobs runs scheduled background maintenance.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/billbook/internal/metrics"
)

// ExpiredSessionSweeper removes expired sessions.
type ExpiredSessionSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// SessionSweeper deletes expired sessions on a cron schedule.
type SessionSweeper struct {
	cron     *cron.Cron
	sessions ExpiredSessionSweeper
	schedule string
	timeout  time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewSessionSweeper creates a sweeper; schedule is a standard cron expression or a
// descriptor such as "@every 15m".
func NewSessionSweeper(sessions ExpiredSessionSweeper, schedule string, recorder metrics.Recorder, logger *slog.Logger) *SessionSweeper {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SessionSweeper{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sessions: sessions,
		schedule: schedule,
		timeout:  time.Minute,
		metrics:  recorder,
		logger:   logger,
	}
}

// Start registers the sweep and starts the scheduler.
func (s *SessionSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, _ = s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Session sweeper started", "schedule", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep, or for ctx.
func (s *SessionSweeper) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("Session sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs one pass immediately.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("Session sweep failed", "error", err)
		return 0, err
	}

	s.metrics.AddSessionsSwept(removed)
	if removed > 0 {
		s.logger.Info("Expired sessions removed", "count", removed)
	} else {
		s.logger.Debug("No expired sessions")
	}
	return removed, nil
}
