package file

import (
	"fileshare/internal/adapters/handlers/http/response"
	"fileshare/internal/core/domain"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// V1UploadChunkResponse is the response to a chunk upload
type V1UploadChunkResponse struct {
	ChunkIndex     int  `json:"chunk_index"`
	ReceivedCount  int  `json:"received_count"`
	TotalChunks    int  `json:"total_chunks"`
	UploadComplete bool `json:"upload_complete"`
}

// UploadChunkV1 is the function that handles RecordChunk. The body is the raw chunk.
func (h *HandlerV1) UploadChunkV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "upload chunk", err)
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		h.writeError(w, r, "upload chunk", err)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, "upload chunk", fmt.Errorf("%w: index must be an integer", domain.ErrInvalidChunk))
		return
	}

	limit := h.cfg.MaxRequestBody()
	if r.ContentLength > limit {
		response.PayloadTooLarge(w, limit)
		return
	}

	body := &bodyReader{r: r.Body}
	progress, err := h.uploadService.RecordChunk(r.Context(), sessionID, owner, index, body)
	if err != nil {
		if body.tooLarge {
			response.PayloadTooLarge(w, limit)
			return
		}
		h.writeError(w, r, "error recording chunk", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1UploadChunkResponse{
		ChunkIndex:     index,
		ReceivedCount:  progress.ReceivedCount,
		TotalChunks:    progress.Session.TotalChunks,
		UploadComplete: progress.IsComplete(),
	})
}
