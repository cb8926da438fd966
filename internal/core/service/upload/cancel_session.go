package upload

import (
	"context"
	"fileshare/internal/core/domain"
	"fmt"

	"github.com/google/uuid"
)

func (u *uploadService) CancelSession(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) error {
	unlock := u.sessionLocks.lock(sessionID.String())
	defer unlock()

	session, err := u.loadOwnedSession(ctx, sessionID, ownerID)
	if err != nil {
		return err
	}
	if !session.IsOpen() {
		return fmt.Errorf("%w: session is %s", domain.ErrSessionNotFound, session.Status)
	}

	if err := u.chunks.Discard(ctx, sessionID); err != nil {
		return err
	}
	if err := u.uow.UploadSessionRepo().Delete(ctx, sessionID); err != nil {
		return err
	}

	u.logger.Info("upload session cancelled", "session_id", sessionID, "owner_id", ownerID)
	u.emit(ctx, domain.NewSessionEvent(domain.FileEventSessionCancelled, *session, now()))
	return nil
}
