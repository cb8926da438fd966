package cleanup

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"time"
)

// CleanupIdleSessions reclaims open sessions idle past the timeout and drops completed sessions
// untouched for as long
func (c *cleanupService) CleanupIdleSessions(ctx context.Context, now time.Time) error {
	before := now.Add(-c.idleTimeout)

	sessions, err := c.uow.UploadSessionRepo().FindIdle(ctx, before)
	if err != nil {
		return err
	}

	var reclaimed int
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}

		// the row goes first so a racing chunk write fails instead of recreating state
		if err := c.uow.UploadSessionRepo().Delete(ctx, session.ID); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				c.logger.Error("failed to delete idle session", "session_id", session.ID, "error", err)
			}
			continue
		}
		if err := c.chunks.Discard(ctx, session.ID); err != nil {
			c.logger.Error("failed to discard idle session chunks", "session_id", session.ID, "error", err)
		}

		reclaimed++
		c.emit(ctx, domain.NewSessionEvent(domain.FileEventSessionReclaimed, session, now))
	}

	dropped, err := c.uow.UploadSessionRepo().DeleteCompletedBefore(ctx, before)
	if err != nil {
		return err
	}

	c.logger.Info("idle sessions cleanup completed", "reclaimed", reclaimed, "completed_dropped", dropped)
	return nil
}
