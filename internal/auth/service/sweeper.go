package service

import (
	"context"
	"log/slog"
	"time"
)

// BlacklistSweeper periodically removes expired blacklist entries for the
// life of the process.
type BlacklistSweeper struct {
	interval time.Duration
	// newBlacklister is called every tick so each sweep works against a
	// freshly resolved registry rather than a handle held across iterations.
	newBlacklister func() Blacklister
	logger         *slog.Logger
}

func NewBlacklistSweeper(interval time.Duration, newBlacklister func() Blacklister, logger *slog.Logger) *BlacklistSweeper {
	return &BlacklistSweeper{
		interval:       interval,
		newBlacklister: newBlacklister,
		logger:         logger,
	}
}

// Run blocks until ctx is cancelled. Errors in a sweep are logged and
// swallowed; they never terminate the loop.
func (s *BlacklistSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("blacklist sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("blacklist sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *BlacklistSweeper) sweep(ctx context.Context) {
	removed, err := s.newBlacklister().CleanupExpired(ctx)
	if err != nil {
		s.logger.Error("blacklist sweep failed", "error", err)
		return
	}

	if removed > 0 {
		s.logger.Info("cleaned up expired blacklisted tokens", "count", removed)
	}
}
