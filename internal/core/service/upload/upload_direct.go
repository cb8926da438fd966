package upload

import (
	"context"
	"fileshare/internal/core/domain"
	"fmt"
	"io"
)

func (u *uploadService) UploadDirect(ctx context.Context, req domain.DirectUploadRequest, content io.Reader) (*domain.FileRecord, error) {
	switch {
	case req.SizeBytes <= 0:
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidRequest)
	case req.SizeBytes > u.cfg.MaxDirectUploadSize:
		return nil, fmt.Errorf("%w: direct uploads are limited to %d bytes, use a chunked upload", domain.ErrInvalidRequest, u.cfg.MaxDirectUploadSize)
	}
	if err := domain.ValidateFilename(req.Filename); err != nil {
		return nil, err
	}
	if err := domain.ValidateTTL(req.TTLHours, u.cfg.MaxTTLHours); err != nil {
		return nil, err
	}

	unlock := u.ownerLocks.lock(req.OwnerID.String())
	defer unlock()

	if err := u.checkStorageLimit(ctx, req.OwnerID, req.SizeBytes); err != nil {
		return nil, err
	}

	fileID, err := u.newFileID(ctx)
	if err != nil {
		return nil, err
	}
	record := newRecord(fileID, req.OwnerID, req.Filename, req.SizeBytes, req.TTLHours, req.IsPublic)

	published, err := u.publish(ctx, record, content, nil)
	if err != nil {
		return nil, err
	}

	u.logger.Info("file uploaded", "file_id", published.ID, "owner_id", published.OwnerID, "size", published.SizeBytes)
	u.emit(ctx, domain.NewFileEvent(domain.FileEventUploaded, *published, &req.OwnerID, published.CreatedAt))

	return published, nil
}
