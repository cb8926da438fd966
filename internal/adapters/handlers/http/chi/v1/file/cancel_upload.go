package file

import (
	"net/http"
)

// V1StatusResponse acknowledges a state change
type V1StatusResponse struct {
	Status string `json:"status"`
}

// CancelUploadV1 is the function that handles CancelSession
func (h *HandlerV1) CancelUploadV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "cancel upload", err)
		return
	}

	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		h.writeError(w, r, "cancel upload", err)
		return
	}

	if err := h.uploadService.CancelSession(r.Context(), sessionID, owner); err != nil {
		h.writeError(w, r, "error cancelling upload", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1StatusResponse{Status: "cancelled"})
}
