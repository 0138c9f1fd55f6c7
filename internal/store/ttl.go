package store

import (
	"context"
	"log/slog"
	"time"
)

const sweepInterval = 5 * time.Minute

// StartExpirySweeper runs a background goroutine that periodically deletes
// sessions past their expiry. GetSession already hides expired rows, so the
// sweeper only reclaims storage.
func StartExpirySweeper(ctx context.Context, repo Repository) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Expiry sweeper started", "interval", sweepInterval)

		for {
			select {
			case <-ticker.C:
				deleted, err := repo.CleanupExpired(ctx)
				if err != nil {
					slog.Error("Expiry sweeper failed", "error", err)
					continue
				}
				if deleted > 0 {
					slog.Info("Expiry sweeper removed sessions", "count", deleted)
				}
			case <-ctx.Done():
				slog.Info("Expiry sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
