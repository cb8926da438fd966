package file

import (
	"errors"
	"fileshare/internal/adapters/handlers/http/response"
	"fileshare/internal/core/domain"
	"fmt"
	"net/http"
	"strconv"
)

// multipartMemory is how much of a multipart body stays in memory before spilling to disk
const multipartMemory = 8 << 20

// UploadDirectV1 is the function that handles UploadDirect from a multipart form
// with a file field and optional ttl_hours and is_public fields
func (h *HandlerV1) UploadDirectV1(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		h.writeError(w, r, "direct upload", err)
		return
	}

	limit := h.cfg.MaxRequestBody()
	if r.ContentLength > limit {
		response.PayloadTooLarge(w, limit)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.PayloadTooLarge(w, limit)
			return
		}
		h.writeError(w, r, "error parsing multipart form", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, "direct upload", fmt.Errorf("%w: file field is required", domain.ErrInvalidRequest))
		return
	}
	defer file.Close()

	req := domain.DirectUploadRequest{
		OwnerID:   owner,
		Filename:  header.Filename,
		SizeBytes: header.Size,
	}

	if raw := r.FormValue("ttl_hours"); raw != "" {
		if req.TTLHours, err = strconv.Atoi(raw); err != nil {
			h.writeError(w, r, "direct upload", fmt.Errorf("%w: ttl_hours must be an integer", domain.ErrInvalidRequest))
			return
		}
	}
	if raw := r.FormValue("is_public"); raw != "" {
		if req.IsPublic, err = strconv.ParseBool(raw); err != nil {
			h.writeError(w, r, "direct upload", fmt.Errorf("%w: is_public must be a boolean", domain.ErrInvalidRequest))
			return
		}
	}

	record, err := h.uploadService.UploadDirect(r.Context(), req, file)
	if err != nil {
		h.writeError(w, r, "error uploading file", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toFileResponse(*record))
}
