package file

import (
	"net/http"
)

// V1ListFilesResponse is a page of the caller's files
type V1ListFilesResponse struct {
	Files  []V1FileResponse `json:"files"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ListFilesV1 is the function that handles ListOwned
func (h *HandlerV1) ListFilesV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "list files", err)
		return
	}

	limit, err := intQuery(r, "limit")
	if err != nil {
		h.writeError(w, r, "list files", err)
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		h.writeError(w, r, "list files", err)
		return
	}

	records, err := h.accessService.ListOwned(r.Context(), owner, limit, offset)
	if err != nil {
		h.writeError(w, r, "error listing files", err)
		return
	}

	files := make([]V1FileResponse, 0, len(records))
	for _, record := range records {
		files = append(files, toFileResponse(record))
	}

	h.writeJSON(w, http.StatusOK, V1ListFilesResponse{
		Files:  files,
		Limit:  limit,
		Offset: offset,
	})
}
