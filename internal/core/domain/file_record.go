package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// FileRecord represents a published file and its access policy
type FileRecord struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Filename      string
	SizeBytes     int64
	StorageKey    string
	Checksum      string
	ContentType   string
	Category      ContentCategory
	IsPublic      bool
	CreatedAt     time.Time
	ExpiresAt     *time.Time
	DownloadCount int64
}

// IsExpired reports whether the record is past its expiry at now
func (f *FileRecord) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && !now.Before(*f.ExpiresAt)
}

// CanRead reports whether requester may read the file
func (f *FileRecord) CanRead(requester *uuid.UUID) bool {
	if f.IsPublic {
		return true
	}
	return requester != nil && *requester == f.OwnerID
}

// ExpiresAtFor returns the expiry of a file created at createdAt with ttlHours, nil when it never expires
func ExpiresAtFor(createdAt time.Time, ttlHours int) *time.Time {
	if ttlHours <= 0 {
		return nil
	}
	t := createdAt.Add(time.Duration(ttlHours) * time.Hour)
	return &t
}

// StorageKeyFor returns the content store key of a file, sharded on the id prefix
func StorageKeyFor(id uuid.UUID) string {
	s := id.String()
	return "files/" + s[:2] + "/" + s
}

// ContentHandle is an open reader on published bytes plus the record they belong to.
// Callers must close it.
type ContentHandle struct {
	Record      FileRecord
	ContentType string
	Content     io.ReadCloser
}

func (h *ContentHandle) Close() error {
	return h.Content.Close()
}

// FilePreview is the metadata used to render a file preview
type FilePreview struct {
	Record  FileRecord
	Snippet string
}

// StoredObject describes bytes published to the content store
type StoredObject struct {
	Key       string
	SizeBytes int64
	Checksum  string
}
