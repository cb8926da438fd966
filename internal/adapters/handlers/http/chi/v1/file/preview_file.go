package file

import (
	"net/http"
)

// V1PreviewResponse is the metadata used to render a preview
type V1PreviewResponse struct {
	V1FileResponse
	PreviewType string `json:"preview_type"`
	Snippet     string `json:"snippet,omitempty"`
}

// PreviewFileV1 is the function that handles Describe
func (h *HandlerV1) PreviewFileV1(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		h.writeError(w, r, "preview file", err)
		return
	}

	preview, err := h.accessService.Describe(r.Context(), fileID, requester(r))
	if err != nil {
		h.writeError(w, r, "error describing file", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1PreviewResponse{
		V1FileResponse: toFileResponse(preview.Record),
		PreviewType:    string(preview.Record.Category),
		Snippet:        preview.Snippet,
	})
}
