package access

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (a *accessService) Resolve(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.ContentHandle, error) {
	record, err := a.findReadable(ctx, fileID, requester)
	if err != nil {
		return nil, err
	}

	content, err := a.content.Open(ctx, record.StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.logger.Error("file record without content", "file_id", fileID, "key", record.StorageKey)
			return nil, fmt.Errorf("%w: content missing", domain.ErrFileNotFound)
		}
		return nil, err
	}

	count, err := a.uow.FileRepo().IncrementDownloadCount(ctx, fileID)
	if err != nil {
		content.Close()
		return nil, err
	}
	record.DownloadCount = count

	a.emit(ctx, domain.NewFileEvent(domain.FileEventDownloaded, *record, requester, time.Now().UTC()))

	return &domain.ContentHandle{
		Record:      *record,
		ContentType: record.ContentType,
		Content:     content,
	}, nil
}
