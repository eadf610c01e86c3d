package service

import (
	"context"
	"errors"
	"fmt"

	"lms_sync/internal/domain"
)

// SweepStats counts the outcome of one background pass over all connections.
type SweepStats struct {
	Connections int
	Succeeded   int
	Failed      int
	Busy        int
}

// SyncAll runs a units sync then an assignments sync for every stored
// connection, one owner at a time. Per-owner failures are logged and counted.
func (s *SyncService) SyncAll(ctx context.Context) (*SweepStats, error) {
	conns, err := s.connections.List(ctx, s.source.ID())
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	stats := &SweepStats{Connections: len(conns)}
	for _, conn := range conns {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		logger := s.logger.With("owner_id", conn.OwnerID, "connection_id", conn.ID)

		_, err := s.SyncUnits(ctx, conn.OwnerID, nil)
		if err == nil {
			_, err = s.SyncAssignments(ctx, conn.OwnerID, nil)
		}

		switch {
		case err == nil:
			stats.Succeeded++
		case errors.Is(err, domain.ErrRunInProgress):
			stats.Busy++
			logger.Debug("owner busy, skipping")
		default:
			stats.Failed++
			logger.Warn("background sync failed", "error", err)
		}
	}

	return stats, nil
}
