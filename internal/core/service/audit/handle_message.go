package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fileshare/internal/core/domain"
	"fmt"

	"github.com/google/uuid"
)

// HandleMessage stores one file event. Malformed payloads fail with domain.ErrInvalidRequest
// and redelivered events are accepted without a second row.
func (a *auditService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.FileEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: could not unmarshal file event: %v", domain.ErrInvalidRequest, err)
	}

	switch {
	case event.ID == uuid.Nil:
		return fmt.Errorf("%w: file event without id", domain.ErrInvalidRequest)
	case !event.Type.IsKnown():
		return fmt.Errorf("%w: unknown file event type %q", domain.ErrInvalidRequest, event.Type)
	case event.FileID == nil && event.SessionID == nil:
		return fmt.Errorf("%w: file event %s names neither a file nor a session", domain.ErrInvalidRequest, event.ID)
	}

	a.logger.Info("handling file event", "type", event.Type, "event_id", event.ID, "owner_id", event.OwnerID)

	if err := a.uow.FileEventRepo().Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			a.logger.Debug("file event already recorded", "event_id", event.ID)
			return nil
		}
		return err
	}
	return nil
}
