package port

import (
	"context"
	"fileshare/internal/core/domain"
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session repositories
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	OpenUsageByOwner(ctx context.Context, ownerID uuid.UUID) (sessions int, pendingBytes int64, err error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkCompleted(ctx context.Context, id uuid.UUID, fileID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindIdle(ctx context.Context, before time.Time) ([]domain.UploadSession, error)
	DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error)

	UpsertChunk(ctx context.Context, sessionID uuid.UUID, receipt domain.ChunkReceipt) error
	ListChunks(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkReceipt, error)
	DeleteChunks(ctx context.Context, sessionID uuid.UUID) error
}

// ChunkStore is an interface to define in-flight chunk bytes interactions
type ChunkStore interface {
	// Put stores payload for (sessionID, index). It fails with domain.ErrInvalidChunk when the
	// payload is empty, longer than maxSize, or differs from wantSize when wantSize > 0.
	Put(ctx context.Context, sessionID uuid.UUID, index int, payload io.Reader, maxSize int64, wantSize int64) (int64, error)
	Open(ctx context.Context, sessionID uuid.UUID, index int) (io.ReadCloser, error)
	Discard(ctx context.Context, sessionID uuid.UUID) error
}

// UploadService is an interface to define chunked and direct uploads
type UploadService interface {
	StartSession(ctx context.Context, req domain.StartSessionRequest) (*domain.UploadSession, error)
	RecordChunk(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID, index int, payload io.Reader) (*domain.SessionProgress, error)
	CancelSession(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) error
	IsComplete(ctx context.Context, sessionID uuid.UUID) (bool, error)
	SessionStatus(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) (*domain.SessionProgress, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) (*domain.FileRecord, error)
	UploadDirect(ctx context.Context, req domain.DirectUploadRequest, content io.Reader) (*domain.FileRecord, error)
}
