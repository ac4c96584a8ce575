package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/decoynet/decoy/internal/domain"
)

// ExpireCallback is invoked for each session the sweeper expires.
type ExpireCallback func(s *domain.Session)

// SweeperConfig controls the idle-expiry worker.
type SweeperConfig struct {
	Interval    time.Duration
	IdleTimeout time.Duration
	Retention   time.Duration
}

// StartSweeper runs a background goroutine that periodically expires idle
// sessions and purges terminal ones past retention. Each candidate is
// re-checked under its per-session lock, held only for the check-and-evict
// itself; expiry never fires the resolution callback, it represents
// abandonment rather than success.
func StartSweeper(ctx context.Context, store Store, locks *Locks, cfg SweeperConfig, onExpire ExpireCallback) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	ticker := time.NewTicker(cfg.Interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", cfg.Interval, "idle_timeout", cfg.IdleTimeout)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, store, locks, cfg, onExpire, time.Now())
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ctx context.Context, store Store, locks *Locks, cfg SweeperConfig, onExpire ExpireCallback, now time.Time) {
	ids, err := store.IDs(ctx)
	if err != nil {
		slog.Error("Sweeper failed to list sessions", "error", err)
		return
	}

	expired := 0
	for _, id := range ids {
		if expireOne(ctx, store, locks, id, cfg.IdleTimeout, now, onExpire) {
			expired++
		}
	}
	if expired > 0 {
		slog.Info("Sweeper expired idle sessions", "count", expired)
	}

	if purged, err := store.PurgeTerminal(ctx, cfg.Retention, now); err != nil {
		slog.Error("Sweeper failed to purge terminal sessions", "error", err)
	} else if purged > 0 {
		slog.Info("Sweeper purged terminal sessions", "count", purged)
	}
}

func expireOne(ctx context.Context, store Store, locks *Locks, id string, idleTimeout time.Duration, now time.Time, onExpire ExpireCallback) bool {
	release := locks.Acquire(id)
	defer release()

	s, err := store.Get(ctx, id)
	if err != nil {
		return false
	}
	if s.Status != domain.StatusActive || now.Sub(s.LastActivityAt) <= idleTimeout {
		return false
	}

	s.Status = domain.StatusExpired
	s.Ledger = nil // expiry releases the owned ledger
	if err := store.Save(ctx, s); err != nil {
		slog.Error("Sweeper failed to save expired session", "session_id", id, "error", err)
		return false
	}

	slog.Info("Session expired", "session_id", id, "turns", s.TurnCount)
	if onExpire != nil {
		onExpire(s)
	}
	return true
}
