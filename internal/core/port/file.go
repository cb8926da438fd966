package port

import (
	"context"
	"fileshare/internal/core/domain"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileRepository is an interface to define file record repository interactions
type FileRepository interface {
	Create(ctx context.Context, record domain.FileRecord) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error)
	SumSizeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error)
	ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindExpired(ctx context.Context, now time.Time, limit int) ([]domain.FileRecord, error)
}

// ContentStore is an interface to define durable file bytes interactions.
// Publish makes content visible under key only once exactly size bytes were written.
type ContentStore interface {
	Publish(ctx context.Context, key string, content io.Reader, size int64) (*domain.StoredObject, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	ReadHead(ctx context.Context, key string, n int64) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// AccessService is an interface to define reads and owner actions on published files
type AccessService interface {
	Resolve(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.ContentHandle, error)
	Describe(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.FilePreview, error)
	ToggleVisibility(ctx context.Context, fileID uuid.UUID, ownerID uuid.UUID) (*domain.FileRecord, error)
	Delete(ctx context.Context, fileID uuid.UUID, ownerID uuid.UUID) error
	ListOwned(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error)
}
