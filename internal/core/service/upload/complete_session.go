package upload

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fmt"

	"github.com/google/uuid"
)

func (u *uploadService) CompleteSession(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) (*domain.FileRecord, error) {
	unlock := u.sessionLocks.lock(sessionID.String())
	defer unlock()

	session, err := u.loadOwnedSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return u.completedRecord(ctx, session)
	}

	receipts, err := u.uow.UploadSessionRepo().ListChunks(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if missing := domain.MissingChunks(session.TotalChunks, receipts); len(missing) > 0 {
		return nil, &domain.IncompleteError{Missing: missing}
	}

	var received int64
	for _, r := range receipts {
		received += r.SizeBytes
	}
	if received != session.DeclaredSize {
		return nil, fmt.Errorf("%w: declared %d bytes, received %d", domain.ErrSizeMismatch, session.DeclaredSize, received)
	}

	if err := u.checkStorageLimit(ctx, ownerID, session.DeclaredSize); err != nil {
		return nil, err
	}

	fileID, err := u.newFileID(ctx)
	if err != nil {
		return nil, err
	}
	record := newRecord(fileID, ownerID, session.Filename, session.DeclaredSize, session.TTLHours, session.IsPublic)

	reader := newChunkReader(ctx, u.chunks, sessionID, session.TotalChunks)
	defer reader.Close()

	published, err := u.publish(ctx, record, reader, func(uow port.UnitOfWork) error {
		if err := uow.UploadSessionRepo().MarkCompleted(ctx, sessionID, fileID, record.CreatedAt); err != nil {
			return err
		}
		return uow.UploadSessionRepo().DeleteChunks(ctx, sessionID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCompleted) {
			return u.reloadCompleted(ctx, sessionID)
		}
		return nil, err
	}

	if err := u.chunks.Discard(context.WithoutCancel(ctx), sessionID); err != nil {
		u.logger.Error("failed to discard assembled chunks", "session_id", sessionID, "error", err)
	}

	u.logger.Info("upload session completed",
		"session_id", sessionID,
		"file_id", published.ID,
		"size", published.SizeBytes)
	u.emit(ctx, domain.NewFileEvent(domain.FileEventUploaded, *published, &ownerID, published.CreatedAt))

	return published, nil
}

// completedRecord returns the file a completed session produced
func (u *uploadService) completedRecord(ctx context.Context, session *domain.UploadSession) (*domain.FileRecord, error) {
	if session.FileID == nil {
		return nil, domain.ErrAlreadyCompleted
	}

	record, err := u.uow.FileRepo().FindByID(ctx, *session.FileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: file %s is gone", domain.ErrAlreadyCompleted, session.FileID)
		}
		return nil, err
	}
	return record, nil
}

func (u *uploadService) reloadCompleted(ctx context.Context, sessionID uuid.UUID) (*domain.FileRecord, error) {
	session, err := u.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return u.completedRecord(ctx, session)
}
