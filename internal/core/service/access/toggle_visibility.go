package access

import (
	"context"
	"fileshare/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

func (a *accessService) ToggleVisibility(ctx context.Context, fileID uuid.UUID, ownerID uuid.UUID) (*domain.FileRecord, error) {
	record, err := a.findOwned(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}

	isPublic, err := a.uow.FileRepo().ToggleVisibility(ctx, fileID)
	if err != nil {
		return nil, err
	}
	record.IsPublic = isPublic

	a.logger.Info("file visibility changed", "file_id", fileID, "is_public", isPublic)
	a.emit(ctx, domain.NewFileEvent(domain.FileEventVisibilityChanged, *record, &ownerID, time.Now().UTC()))

	return record, nil
}
