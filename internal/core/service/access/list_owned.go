package access

import (
	"context"
	"fileshare/internal/core/domain"
	"fmt"

	"github.com/google/uuid"
)

// ListOwned returns the live files of ownerID, newest first
func (a *accessService) ListOwned(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	records, err := a.uow.FileRepo().FindByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.FileRecord{}
	}
	return records, nil
}
