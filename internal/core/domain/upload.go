package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UploadSessionStatus represents the status of an upload session
type UploadSessionStatus string

const (
	UploadSessionStatusOpen      UploadSessionStatus = "open"
	UploadSessionStatusCompleted UploadSessionStatus = "completed"
)

const maxFilenameLength = 255

// UploadSession represents a chunked upload in progress
type UploadSession struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Filename     string
	DeclaredSize int64
	TotalChunks  int
	TTLHours     int
	IsPublic     bool
	Status       UploadSessionStatus
	FileID       *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the session still accepts chunks
func (s *UploadSession) IsOpen() bool {
	return s.Status == UploadSessionStatusOpen
}

// ChunkReceipt records one received chunk of a session
type ChunkReceipt struct {
	Index     int
	SizeBytes int64
}

// MissingChunks returns every index in [0, total) absent from receipts, ascending
func MissingChunks(total int, receipts []ChunkReceipt) []int {
	seen := make([]bool, total)
	for _, r := range receipts {
		if r.Index >= 0 && r.Index < total {
			seen[r.Index] = true
		}
	}

	missing := make([]int, 0)
	for i, ok := range seen {
		if !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// SessionProgress is the observable state of an upload session
type SessionProgress struct {
	Session       UploadSession
	ReceivedCount int
	ReceivedBytes int64
	Missing       []int
}

// IsComplete reports whether every chunk was received
func (p *SessionProgress) IsComplete() bool {
	return len(p.Missing) == 0
}

// Percent returns the share of received chunks, 0 to 100
func (p *SessionProgress) Percent() float64 {
	if p.Session.TotalChunks == 0 {
		return 0
	}
	return float64(p.ReceivedCount) * 100 / float64(p.Session.TotalChunks)
}

// StartSessionRequest holds the inputs to open a chunked upload
type StartSessionRequest struct {
	OwnerID      uuid.UUID
	Filename     string
	DeclaredSize int64
	TotalChunks  int
	TTLHours     int
	IsPublic     bool
}

// DirectUploadRequest holds the inputs of a single shot upload
type DirectUploadRequest struct {
	OwnerID   uuid.UUID
	Filename  string
	SizeBytes int64
	TTLHours  int
	IsPublic  bool
}

// ValidateFilename checks that name is a plain file name with an allowed extension
func ValidateFilename(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: filename is required", ErrInvalidRequest)
	case len(name) > maxFilenameLength:
		return fmt.Errorf("%w: filename longer than %d bytes", ErrInvalidRequest, maxFilenameLength)
	case !utf8.ValidString(name), strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: invalid filename %q", ErrInvalidRequest, name)
	}

	if _, ok := LookupContentType(name); !ok {
		return fmt.Errorf("%w: file extension not allowed", ErrInvalidRequest)
	}
	return nil
}

// ValidateTTL checks ttlHours is within [0, maxHours], 0 meaning never expires
func ValidateTTL(ttlHours, maxHours int) error {
	if ttlHours < 0 || ttlHours > maxHours {
		return fmt.Errorf("%w: ttl_hours must be between 0 and %d", ErrInvalidRequest, maxHours)
	}
	return nil
}
