package access

import (
	"context"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// Delete removes the record and its bytes. The record survives when the bytes cannot be removed.
func (a *accessService) Delete(ctx context.Context, fileID uuid.UUID, ownerID uuid.UUID) error {
	record, err := a.uow.FileRepo().FindByID(ctx, fileID)
	if err != nil {
		return err
	}
	if record.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	txErr := a.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.FileRepo().Delete(ctx, fileID); err != nil {
			return err
		}
		return a.content.Delete(ctx, record.StorageKey)
	})
	if txErr != nil {
		return txErr
	}

	a.logger.Info("file deleted", "file_id", fileID, "owner_id", ownerID)
	a.emit(ctx, domain.NewFileEvent(domain.FileEventDeleted, *record, &ownerID, time.Now().UTC()))
	return nil
}
