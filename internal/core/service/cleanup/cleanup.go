package cleanup

import (
	"context"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"log/slog"
	"time"
)

const expiredBatchSize = 100

type cleanupService struct {
	uow         port.UnitOfWork
	content     port.ContentStore
	chunks      port.ChunkStore
	events      port.EventPublisher
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewCleanupService creates a new cleanup service. Open sessions without activity for idleTimeout are reclaimed.
func NewCleanupService(uow port.UnitOfWork, content port.ContentStore, chunks port.ChunkStore, events port.EventPublisher, idleTimeout time.Duration, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:         uow,
		content:     content,
		chunks:      chunks,
		events:      events,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

func (c *cleanupService) emit(ctx context.Context, event domain.FileEvent) {
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warn("failed to publish file event", "type", event.Type, "error", err)
	}
}
