package upload

import (
	"context"
	"errors"
	"fileshare/internal/config"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const maxFileIDAttempts = 5

type uploadService struct {
	uow     port.UnitOfWork
	chunks  port.ChunkStore
	content port.ContentStore
	events  port.EventPublisher
	cfg     config.FileUploadConfig
	logger  *slog.Logger

	// sessionLocks: chunk writes share a session, complete and cancel own it
	sessionLocks *keyedLocks
	chunkLocks   *keyedLocks
	ownerLocks   *keyedLocks
}

// NewUploadService creates a new upload service
func NewUploadService(uow port.UnitOfWork, chunks port.ChunkStore, content port.ContentStore, events port.EventPublisher, cfg config.FileUploadConfig, logger *slog.Logger) port.UploadService {
	return &uploadService{
		uow:          uow,
		chunks:       chunks,
		content:      content,
		events:       events,
		cfg:          cfg,
		logger:       logger,
		sessionLocks: newKeyedLocks(),
		chunkLocks:   newKeyedLocks(),
		ownerLocks:   newKeyedLocks(),
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// checkStorageLimit fails with domain.ErrQuotaExceeded when adding bytes would exceed the owner's storage limit
func (u *uploadService) checkStorageLimit(ctx context.Context, ownerID uuid.UUID, bytes int64) error {
	if u.cfg.UserStorageLimit <= 0 {
		return nil
	}

	used, err := u.uow.FileRepo().SumSizeByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if used+bytes > u.cfg.UserStorageLimit {
		return fmt.Errorf("%w: storage limit of %d bytes reached", domain.ErrQuotaExceeded, u.cfg.UserStorageLimit)
	}
	return nil
}

// newFileID returns a file id no record uses yet
func (u *uploadService) newFileID(ctx context.Context) (uuid.UUID, error) {
	for attempt := 0; attempt < maxFileIDAttempts; attempt++ {
		id := uuid.New()
		exists, err := u.uow.FileRepo().Exists(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if !exists {
			return id, nil
		}
		u.logger.Warn("file id collision", "file_id", id)
	}
	return uuid.Nil, fmt.Errorf("could not allocate a file id: %w", domain.ErrAlreadyExists)
}

func newRecord(id, ownerID uuid.UUID, filename string, size int64, ttlHours int, isPublic bool) domain.FileRecord {
	createdAt := now()
	ct := domain.ContentTypeOf(filename)
	return domain.FileRecord{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    filename,
		SizeBytes:   size,
		StorageKey:  domain.StorageKeyFor(id),
		ContentType: ct.MimeType,
		Category:    ct.Category,
		IsPublic:    isPublic,
		CreatedAt:   createdAt,
		ExpiresAt:   domain.ExpiresAtFor(createdAt, ttlHours),
	}
}

// publish writes content to the content store then creates the record, running inTx in the
// same transaction. Bytes are removed again when the transaction fails.
func (u *uploadService) publish(ctx context.Context, record domain.FileRecord, content io.Reader, inTx func(uow port.UnitOfWork) error) (*domain.FileRecord, error) {
	obj, err := u.content.Publish(ctx, record.StorageKey, content, record.SizeBytes)
	if err != nil {
		if errors.Is(err, domain.ErrSizeMismatch) || errors.Is(err, domain.ErrStorageFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	record.Checksum = obj.Checksum

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.FileRepo().Create(ctx, record); err != nil {
			return err
		}
		if inTx != nil {
			return inTx(uow)
		}
		return nil
	})
	if txErr != nil {
		if delErr := u.content.Delete(context.WithoutCancel(ctx), record.StorageKey); delErr != nil {
			u.logger.Error("failed to remove unpublished content", "key", record.StorageKey, "error", delErr)
		}
		return nil, txErr
	}

	return &record, nil
}

func (u *uploadService) emit(ctx context.Context, event domain.FileEvent) {
	if err := u.events.Publish(ctx, event); err != nil {
		u.logger.Warn("failed to publish file event", "type", event.Type, "error", err)
	}
}

// loadOwnedSession returns the session when it exists and belongs to ownerID
func (u *uploadService) loadOwnedSession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.UploadSession, error) {
	session, err := u.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: session belongs to another user", domain.ErrForbidden)
	}
	return session, nil
}

func progressOf(session domain.UploadSession, receipts []domain.ChunkReceipt) *domain.SessionProgress {
	var received int64
	for _, r := range receipts {
		received += r.SizeBytes
	}
	missing := domain.MissingChunks(session.TotalChunks, receipts)
	if !session.IsOpen() {
		missing = []int{}
	}
	return &domain.SessionProgress{
		Session:       session,
		ReceivedCount: len(receipts),
		ReceivedBytes: received,
		Missing:       missing,
	}
}
