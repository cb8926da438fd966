package file

import (
	"encoding/json"
	"fileshare/internal/core/domain"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// V1StartUploadRequest is the request to open a chunked upload
type V1StartUploadRequest struct {
	Filename    string `json:"filename"`
	TotalSize   int64  `json:"total_size"`
	TotalChunks int    `json:"total_chunks"`
	TTLHours    int    `json:"ttl_hours"`
	IsPublic    bool   `json:"is_public"`
}

// V1StartUploadResponse is the response to open a chunked upload
type V1StartUploadResponse struct {
	SessionID     uuid.UUID `json:"session_id"`
	TotalChunks   int       `json:"total_chunks"`
	MaxChunkSize  int64     `json:"max_chunk_size"`
	ExpiresIdleAt time.Time `json:"expires_idle_at"`
}

// StartUploadV1 is the function that handles StartSession
func (h *HandlerV1) StartUploadV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "start upload", err)
		return
	}

	var req V1StartUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "error decoding start upload request", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	session, err := h.uploadService.StartSession(r.Context(), domain.StartSessionRequest{
		OwnerID:      owner,
		Filename:     req.Filename,
		DeclaredSize: req.TotalSize,
		TotalChunks:  req.TotalChunks,
		TTLHours:     req.TTLHours,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		h.writeError(w, r, "error starting upload", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, V1StartUploadResponse{
		SessionID:     session.ID,
		TotalChunks:   session.TotalChunks,
		MaxChunkSize:  h.cfg.MaxChunkSize,
		ExpiresIdleAt: session.UpdatedAt.Add(h.cfg.IdleSessionTimeout),
	})
}
