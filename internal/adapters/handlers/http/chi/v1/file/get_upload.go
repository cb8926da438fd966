package file

import (
	"net/http"

	"github.com/google/uuid"
)

// V1UploadStatusResponse is the progress of a chunked upload
type V1UploadStatusResponse struct {
	SessionID       uuid.UUID  `json:"session_id"`
	Filename        string     `json:"filename"`
	Status          string     `json:"status"`
	TotalSize       int64      `json:"total_size"`
	TotalChunks     int        `json:"total_chunks"`
	ReceivedCount   int        `json:"received_count"`
	ReceivedBytes   int64      `json:"received_bytes"`
	MissingChunks   []int      `json:"missing_chunks"`
	ProgressPercent float64    `json:"progress_percent"`
	UploadComplete  bool       `json:"upload_complete"`
	FileID          *uuid.UUID `json:"file_id,omitempty"`
}

// GetUploadV1 is the function that handles SessionStatus
func (h *HandlerV1) GetUploadV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "get upload", err)
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		h.writeError(w, r, "get upload", err)
		return
	}

	progress, err := h.uploadService.SessionStatus(r.Context(), sessionID, owner)
	if err != nil {
		h.writeError(w, r, "error getting upload status", err)
		return
	}

	session := progress.Session
	h.writeJSON(w, http.StatusOK, V1UploadStatusResponse{
		SessionID:       session.ID,
		Filename:        session.Filename,
		Status:          string(session.Status),
		TotalSize:       session.DeclaredSize,
		TotalChunks:     session.TotalChunks,
		ReceivedCount:   progress.ReceivedCount,
		ReceivedBytes:   progress.ReceivedBytes,
		MissingChunks:   progress.Missing,
		ProgressPercent: progress.Percent(),
		UploadComplete:  progress.IsComplete(),
		FileID:          session.FileID,
	})
}
