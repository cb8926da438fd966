package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileEventType is the kind of lifecycle change a file event describes
type FileEventType string

const (
	FileEventUploaded          FileEventType = "file.uploaded"
	FileEventDownloaded        FileEventType = "file.downloaded"
	FileEventVisibilityChanged FileEventType = "file.visibility_changed"
	FileEventDeleted           FileEventType = "file.deleted"
	FileEventExpired           FileEventType = "file.expired"
	FileEventSessionCancelled  FileEventType = "session.cancelled"
	FileEventSessionReclaimed  FileEventType = "session.reclaimed"
)

// IsKnown reports whether t is one of the declared event types
func (t FileEventType) IsKnown() bool {
	switch t {
	case FileEventUploaded, FileEventDownloaded, FileEventVisibilityChanged,
		FileEventDeleted, FileEventExpired, FileEventSessionCancelled, FileEventSessionReclaimed:
		return true
	}
	return false
}

// FileEvent is a lifecycle notification published on the event broker
type FileEvent struct {
	ID         uuid.UUID     `json:"id"`
	Type       FileEventType `json:"type"`
	FileID     *uuid.UUID    `json:"file_id,omitempty"`
	SessionID  *uuid.UUID    `json:"session_id,omitempty"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	ActorID    *uuid.UUID    `json:"actor_id,omitempty"`
	SizeBytes  int64         `json:"size_bytes,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewFileEvent builds an event about a file record
func NewFileEvent(t FileEventType, record FileRecord, actor *uuid.UUID, at time.Time) FileEvent {
	fileID := record.ID
	return FileEvent{
		ID:         uuid.New(),
		Type:       t,
		FileID:     &fileID,
		OwnerID:    record.OwnerID,
		ActorID:    actor,
		SizeBytes:  record.SizeBytes,
		OccurredAt: at,
	}
}

// NewSessionEvent builds an event about an upload session
func NewSessionEvent(t FileEventType, session UploadSession, at time.Time) FileEvent {
	sessionID := session.ID
	return FileEvent{
		ID:         uuid.New(),
		Type:       t,
		SessionID:  &sessionID,
		OwnerID:    session.OwnerID,
		SizeBytes:  session.DeclaredSize,
		OccurredAt: at,
	}
}
