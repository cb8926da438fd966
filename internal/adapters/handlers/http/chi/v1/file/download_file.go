package file

import (
	"io"
	"mime"
	"net/http"
	"strconv"
)

// DownloadFileV1 is the function that handles Resolve and streams the bytes
func (h *HandlerV1) DownloadFileV1(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidParam(r, "fileID")
	if err != nil {
		h.writeError(w, r, "download file", err)
		return
	}

	handle, err := h.accessService.Resolve(r.Context(), fileID, requester(r))
	if err != nil {
		h.writeError(w, r, "error resolving file", err)
		return
	}
	defer handle.Close()

	record := handle.Record
	w.Header().Set("Content-Type", handle.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": record.Filename}))
	if record.Checksum != "" {
		w.Header().Set("ETag", strconv.Quote(record.Checksum))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, handle.Content); err != nil {
		h.logger.Warn("download interrupted", "file_id", fileID, "error", err)
	}
}
