package services

import (
	"context"
	"log/slog"
	"time"
)

// StateSweeper periodically purges expired pending links. The purge is
// best-effort housekeeping; token expiry is enforced at consumption either
// way.
type StateSweeper struct {
	links    *LinkService
	logger   *slog.Logger
	interval time.Duration
}

// NewStateSweeper creates a sweeper. A zero interval defaults to 5 minutes.
func NewStateSweeper(links *LinkService, logger *slog.Logger, interval time.Duration) *StateSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &StateSweeper{links: links, logger: logger, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *StateSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.links.CleanupExpiredStates(ctx); err != nil {
					s.logger.Warn("expired state sweep failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}
