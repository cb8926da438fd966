package cleanup

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// CleanupExpiredFiles deletes the bytes then the record of every file expired at now.
// A file that fails is logged and retried on the next sweep.
func (c *cleanupService) CleanupExpiredFiles(ctx context.Context, now time.Time) error {
	failed := make(map[uuid.UUID]struct{})
	var removed int

	for {
		files, err := c.uow.FileRepo().FindExpired(ctx, now, expiredBatchSize+len(failed))
		if err != nil {
			return err
		}

		progressed := false
		for _, file := range files {
			if _, ok := failed[file.ID]; ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := c.removeFile(ctx, file); err != nil {
				c.logger.Error("failed to remove expired file", "file_id", file.ID, "error", err)
				failed[file.ID] = struct{}{}
				continue
			}
			progressed = true
			removed++
			c.emit(ctx, domain.NewFileEvent(domain.FileEventExpired, file, nil, now))
		}

		if !progressed || len(files) < expiredBatchSize+len(failed) {
			break
		}
	}

	c.logger.Info("expired files cleanup completed", "removed", removed, "failed", len(failed))
	return nil
}

func (c *cleanupService) removeFile(ctx context.Context, file domain.FileRecord) error {
	if err := c.content.Delete(ctx, file.StorageKey); err != nil {
		return err
	}

	err := c.uow.FileRepo().Delete(ctx, file.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
