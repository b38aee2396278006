package session

import (
	"context"
	"log/slog"
	"time"
)

// minSweepInterval keeps a misconfigured interval from spinning.
const minSweepInterval = time.Second

// StartSweepLoop runs a goroutine that drops idle sessions every interval.
//
// The loop:
//  1. Ticker fires every interval.
//  2. Idle sessions are closed and removed.
//  3. Stop when ctx is cancelled.
func StartSweepLoop(ctx context.Context, m *Manager, interval time.Duration, log *slog.Logger) {
	go sweepLoop(ctx, m, interval, log)
}

func sweepLoop(ctx context.Context, m *Manager, interval time.Duration, log *slog.Logger) {
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("session sweep loop stopped")
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Info("swept idle sessions", "removed", n, "live", m.Len())
			}
		}
	}
}
