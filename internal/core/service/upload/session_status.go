package upload

import (
	"context"
	"fileshare/internal/core/domain"

	"github.com/google/uuid"
)

// IsComplete reports whether every chunk of the session was received. A completed session is complete.
func (u *uploadService) IsComplete(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	session, err := u.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if !session.IsOpen() {
		return true, nil
	}

	receipts, err := u.uow.UploadSessionRepo().ListChunks(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return len(domain.MissingChunks(session.TotalChunks, receipts)) == 0, nil
}

func (u *uploadService) SessionStatus(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) (*domain.SessionProgress, error) {
	session, err := u.loadOwnedSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	receipts, err := u.uow.UploadSessionRepo().ListChunks(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return progressOf(*session, receipts), nil
}
