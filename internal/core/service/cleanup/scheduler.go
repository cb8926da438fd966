package cleanup

import (
	"context"
	"fileshare/internal/core/port"
	"log/slog"
	"time"
)

// Schedule runs both sweeps every interval until ctx is cancelled
func Schedule(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			Sweep(ctx, service, time.Now().UTC(), logger)
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}
}

// Sweep runs one pass of both cleanups at now
func Sweep(ctx context.Context, service port.CleanupService, now time.Time, logger *slog.Logger) {
	logger.Debug("cleanup task starting")

	if err := service.CleanupExpiredFiles(ctx, now); err != nil {
		logger.Error("failed to cleanup expired files", "error", err)
	}
	if err := service.CleanupIdleSessions(ctx, now); err != nil {
		logger.Error("failed to cleanup idle sessions", "error", err)
	}
}
