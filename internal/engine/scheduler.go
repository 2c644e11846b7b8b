package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs monitor cycles on a fixed interval. A tick that lands
// while the previous cycle is still running is skipped.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger

	// ctx is the base context for scheduled cycles. Canceling it cuts a
	// running cycle off once the shutdown grace has expired.
	ctx context.Context
}

// NewScheduler creates a Scheduler that runs a monitor cycle every
// interval.
func NewScheduler(
	ctx context.Context,
	eng *Engine,
	interval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		engine: eng,
		log:    log,
		ctx:    ctx,
	}

	if _, err := s.cron.AddFunc("@every "+interval.String(), s.runCycle); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled cycles.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop stops scheduling new cycles. The returned context is done when
// the in-flight cycle, if any, has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runCycle() {
	if err := s.engine.RunCycle(s.ctx); err != nil {
		if errors.Is(err, ErrCycleInFlight) {
			s.log.Warn("previous cycle still running, tick skipped")
			return
		}
		s.log.Error("scheduled cycle failed", "error", err)
	}
}
