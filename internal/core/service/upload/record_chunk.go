package upload

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fmt"
	"io"

	"github.com/google/uuid"
)

func (u *uploadService) RecordChunk(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID, index int, payload io.Reader) (*domain.SessionProgress, error) {
	unlock := u.sessionLocks.rlock(sessionID.String())
	defer unlock()

	session, err := u.loadOwnedSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrSessionNotFound, session.Status)
	}
	if index < 0 || index >= session.TotalChunks {
		return nil, fmt.Errorf("%w: index %d outside [0, %d)", domain.ErrInvalidChunk, index, session.TotalChunks)
	}

	unlockChunk := u.chunkLocks.lock(fmt.Sprintf("%s/%d", sessionID, index))
	defer unlockChunk()

	receipts, err := u.uow.UploadSessionRepo().ListChunks(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var wantSize, otherBytes int64
	for _, r := range receipts {
		if r.Index == index {
			wantSize = r.SizeBytes
			continue
		}
		otherBytes += r.SizeBytes
	}

	maxSize := min(u.cfg.MaxChunkSize, session.DeclaredSize-otherBytes)
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: session already holds its declared %d bytes", domain.ErrInvalidChunk, session.DeclaredSize)
	}

	size, err := u.chunks.Put(ctx, sessionID, index, payload, maxSize, wantSize)
	if err != nil {
		return nil, err
	}

	receipt := domain.ChunkReceipt{Index: index, SizeBytes: size}
	touchedAt := now()
	err = u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.UploadSessionRepo().UpsertChunk(ctx, sessionID, receipt); err != nil {
			return err
		}
		return uow.UploadSessionRepo().Touch(ctx, sessionID, touchedAt)
	})
	if err != nil {
		// the sweeper reclaimed the session while the payload was being written
		if errors.Is(err, domain.ErrNotFound) {
			if discardErr := u.chunks.Discard(context.WithoutCancel(ctx), sessionID); discardErr != nil {
				u.logger.Error("failed to discard orphaned chunk", "session_id", sessionID, "error", discardErr)
			}
		}
		return nil, err
	}

	if wantSize == 0 {
		receipts = append(receipts, receipt)
	}
	session.UpdatedAt = touchedAt

	u.logger.Debug("chunk recorded", "session_id", sessionID, "index", index, "size", size)

	return progressOf(*session, receipts), nil
}
