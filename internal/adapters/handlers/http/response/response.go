package response

import (
	"encoding/json"
	"errors"
	"fileshare/internal/core/domain"
	"net/http"
	"strconv"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Kind          domain.Kind `json:"kind"`
	Detail        string      `json:"detail"`
	MissingChunks []int       `json:"missing_chunks,omitempty"`
}

var statuses = map[domain.Kind]int{
	domain.KindInvalidRequest:   http.StatusBadRequest,
	domain.KindInvalidChunk:     http.StatusBadRequest,
	domain.KindUnauthenticated:  http.StatusUnauthorized,
	domain.KindForbidden:        http.StatusForbidden,
	domain.KindNotFound:         http.StatusNotFound,
	domain.KindAlreadyCompleted: http.StatusConflict,
	domain.KindIncomplete:       http.StatusUnprocessableEntity,
	domain.KindSizeMismatch:     http.StatusUnprocessableEntity,
	domain.KindQuotaExceeded:    http.StatusTooManyRequests,
	domain.KindStorageFailure:   http.StatusServiceUnavailable,
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.Kind) int {
	if status, ok := statuses[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// JSON writes data with status
func JSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Error writes err as an ErrorResponse and returns the status used.
// Storage and internal details are not exposed.
func Error(w http.ResponseWriter, err error) int {
	kind := domain.KindOf(err)
	body := ErrorResponse{Kind: kind, Detail: err.Error()}

	switch kind {
	case domain.KindStorageFailure:
		body.Detail = "storage unavailable, retry later"
	case domain.KindInternal:
		body.Detail = "internal server error"
	case domain.KindIncomplete:
		var incomplete *domain.IncompleteError
		if errors.As(err, &incomplete) {
			body.MissingChunks = incomplete.Missing
		}
	}

	status := StatusFor(kind)
	_ = JSON(w, status, body)
	return status
}

// PayloadTooLarge writes the transport level 413
func PayloadTooLarge(w http.ResponseWriter, limit int64) {
	_ = JSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
		Kind:   domain.KindInvalidRequest,
		Detail: "request body larger than " + strconv.FormatInt(limit, 10) + " bytes",
	})
}
