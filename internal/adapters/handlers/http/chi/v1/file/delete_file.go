package file

import (
	"net/http"
)

// DeleteFileV1 is the function that handles Delete
func (h *HandlerV1) DeleteFileV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "delete file", err)
		return
	}

	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		h.writeError(w, r, "delete file", err)
		return
	}

	if err := h.accessService.Delete(r.Context(), fileID, owner); err != nil {
		h.writeError(w, r, "error deleting file", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1StatusResponse{Status: "deleted"})
}
