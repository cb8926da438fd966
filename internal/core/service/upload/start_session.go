package upload

import (
	"context"
	"fileshare/internal/core/domain"
	"fmt"

	"github.com/google/uuid"
)

func (u *uploadService) validateStart(req domain.StartSessionRequest) error {
	cfg := u.cfg
	switch {
	case req.DeclaredSize <= 0:
		return fmt.Errorf("%w: declared_size must be positive", domain.ErrInvalidRequest)
	case req.TotalChunks <= 0:
		return fmt.Errorf("%w: total_chunks must be positive", domain.ErrInvalidRequest)
	case req.TotalChunks > cfg.MaxTotalChunks:
		return fmt.Errorf("%w: total_chunks above %d", domain.ErrInvalidRequest, cfg.MaxTotalChunks)
	case req.DeclaredSize > cfg.MaxFileSize:
		return fmt.Errorf("%w: declared_size above %d bytes", domain.ErrInvalidRequest, cfg.MaxFileSize)
	case req.DeclaredSize > cfg.MaxChunkSize*int64(req.TotalChunks):
		return fmt.Errorf("%w: declared_size does not fit in %d chunks of %d bytes", domain.ErrInvalidRequest, req.TotalChunks, cfg.MaxChunkSize)
	case int64(req.TotalChunks) > req.DeclaredSize:
		return fmt.Errorf("%w: more chunks than bytes", domain.ErrInvalidRequest)
	}

	if err := domain.ValidateFilename(req.Filename); err != nil {
		return err
	}
	return domain.ValidateTTL(req.TTLHours, cfg.MaxTTLHours)
}

func (u *uploadService) StartSession(ctx context.Context, req domain.StartSessionRequest) (*domain.UploadSession, error) {
	if err := u.validateStart(req); err != nil {
		return nil, err
	}

	unlock := u.ownerLocks.lock(req.OwnerID.String())
	defer unlock()

	count, pending, err := u.uow.UploadSessionRepo().OpenUsageByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if count >= u.cfg.MaxSessionsPerUser {
		return nil, fmt.Errorf("%w: %d upload sessions already open", domain.ErrQuotaExceeded, count)
	}
	if pending+req.DeclaredSize > u.cfg.MaxPendingBytesPerUser {
		return nil, fmt.Errorf("%w: pending upload bytes above %d", domain.ErrQuotaExceeded, u.cfg.MaxPendingBytesPerUser)
	}
	if err := u.checkStorageLimit(ctx, req.OwnerID, pending+req.DeclaredSize); err != nil {
		return nil, err
	}

	createdAt := now()
	session := domain.UploadSession{
		ID:           uuid.New(),
		OwnerID:      req.OwnerID,
		Filename:     req.Filename,
		DeclaredSize: req.DeclaredSize,
		TotalChunks:  req.TotalChunks,
		TTLHours:     req.TTLHours,
		IsPublic:     req.IsPublic,
		Status:       domain.UploadSessionStatusOpen,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err := u.uow.UploadSessionRepo().Create(ctx, session); err != nil {
		return nil, err
	}

	u.logger.Info("upload session started",
		"session_id", session.ID,
		"owner_id", session.OwnerID,
		"declared_size", session.DeclaredSize,
		"total_chunks", session.TotalChunks)

	return &session, nil
}
