package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Scheduler triggers batch runs on a fixed interval, but only inside a
// daily wall-clock window evaluated in a fixed timezone. The shift roster
// this serves lives in one timezone; evaluating the window in server-local
// time would silently shift it whenever the host moves.
type Scheduler struct {
	runner      *Runner
	logger      *slog.Logger
	interval    time.Duration
	windowStart string // "HH:MM"
	windowEnd   string // "HH:MM"
	location    *time.Location
}

// NewScheduler builds a Scheduler. windowStart and windowEnd are "HH:MM"
// strings already validated by the config layer.
func NewScheduler(runner *Runner, logger *slog.Logger, interval time.Duration, windowStart, windowEnd string, location *time.Location) *Scheduler {
	return &Scheduler{
		runner:      runner,
		logger:      logger,
		interval:    interval,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		location:    location,
	}
}

// Start runs the trigger loop until ctx is cancelled. Each tick either
// fires a run or logs why it did not; ticks that land while a previous run
// is still going are dropped, not queued.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("sync scheduler started",
		slog.String("interval", s.interval.String()),
		slog.String("window", s.windowStart+"-"+s.windowEnd),
		slog.String("timezone", s.location.String()),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now().In(s.location)
	if !s.inWindow(now) {
		return
	}

	if _, err := s.runner.Run(ctx); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			s.logger.Info("scheduled sync skipped, previous run still going")
			return
		}
		s.logger.Error("scheduled sync failed", slog.String("error", err.Error()))
	}
}

// inWindow reports whether now falls inside [windowStart, windowEnd),
// compared minute-by-minute in the scheduler's timezone.
func (s *Scheduler) inWindow(now time.Time) bool {
	hhmm := now.Format("15:04")
	return hhmm >= s.windowStart && hhmm < s.windowEnd
}
