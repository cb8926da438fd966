package file

import (
	"net/http"

	"github.com/google/uuid"
)

// V1VisibilityResponse is the visibility of a file after a toggle
type V1VisibilityResponse struct {
	FileID   uuid.UUID `json:"file_id"`
	IsPublic bool      `json:"is_public"`
}

// ToggleVisibilityV1 is the function that handles ToggleVisibility
func (h *HandlerV1) ToggleVisibilityV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "toggle visibility", err)
		return
	}

	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		h.writeError(w, r, "toggle visibility", err)
		return
	}

	record, err := h.accessService.ToggleVisibility(r.Context(), fileID, owner)
	if err != nil {
		h.writeError(w, r, "error toggling visibility", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1VisibilityResponse{FileID: record.ID, IsPublic: record.IsPublic})
}
