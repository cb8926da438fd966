package file

import (
	"net/http"
)

// CompleteUploadV1 is the function that handles CompleteSession
func (h *HandlerV1) CompleteUploadV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "complete upload", err)
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		h.writeError(w, r, "complete upload", err)
		return
	}

	record, err := h.uploadService.CompleteSession(r.Context(), sessionID, owner)
	if err != nil {
		h.writeError(w, r, "error completing upload", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toFileResponse(*record))
}
