package access

import (
	"context"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	snippetBytes     = 1024
	defaultListLimit = 50
	maxListLimit     = 200
)

type accessService struct {
	uow     port.UnitOfWork
	content port.ContentStore
	events  port.EventPublisher
	logger  *slog.Logger
}

// NewAccessService creates a new access service
func NewAccessService(uow port.UnitOfWork, content port.ContentStore, events port.EventPublisher, logger *slog.Logger) port.AccessService {
	return &accessService{
		uow:     uow,
		content: content,
		events:  events,
		logger:  logger,
	}
}

// findLive returns the record unless it is missing or expired. Expired records stay until the sweeper runs.
func (a *accessService) findLive(ctx context.Context, fileID uuid.UUID) (*domain.FileRecord, error) {
	record, err := a.uow.FileRepo().FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if record.IsExpired(time.Now()) {
		return nil, fmt.Errorf("%w: file expired", domain.ErrFileNotFound)
	}
	return record, nil
}

func (a *accessService) findReadable(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.FileRecord, error) {
	record, err := a.findLive(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !record.CanRead(requester) {
		return nil, fmt.Errorf("%w: file is private", domain.ErrForbidden)
	}
	return record, nil
}

func (a *accessService) findOwned(ctx context.Context, fileID, ownerID uuid.UUID) (*domain.FileRecord, error) {
	record, err := a.findLive(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if record.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: file belongs to another user", domain.ErrForbidden)
	}
	return record, nil
}

func (a *accessService) emit(ctx context.Context, event domain.FileEvent) {
	if err := a.events.Publish(ctx, event); err != nil {
		a.logger.Warn("failed to publish file event", "type", event.Type, "error", err)
	}
}
