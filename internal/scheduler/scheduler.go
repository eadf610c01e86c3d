package scheduler

import (
	"context"
	"log/slog"
	"time"

	"lms_sync/internal/service"
)

// Syncer runs one background pass over all connections.
type Syncer interface {
	SyncAll(ctx context.Context) (*service.SweepStats, error)
}

type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler runs syncer every interval. Each pass is bounded by timeout
// when it is positive.
func NewScheduler(syncer Syncer, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.timeout > 0 {
		syncCtx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	defer cancel()

	stats, err := s.syncer.SyncAll(syncCtx)
	if err != nil {
		s.logger.Error("background sync failed", "error", err)
		return
	}

	s.logger.Info("background sync completed",
		"connections", stats.Connections,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"busy", stats.Busy,
	)
}
