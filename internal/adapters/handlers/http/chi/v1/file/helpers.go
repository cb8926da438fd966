package file

import (
	"errors"
	"fileshare/internal/adapters/handlers/http/auth"
	"fileshare/internal/adapters/handlers/http/response"
	"fileshare/internal/core/domain"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := response.JSON(w, status, data); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// writeError answers with the error's kind. Server side kinds are logged.
func (h *HandlerV1) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := response.Error(w, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "path", r.URL.Path)
		return
	}
	h.logger.Debug(msg, "error", err, "status", status)
}

// requireOwner returns the authenticated owner. Routes behind auth.Required always have one.
func requireOwner(r *http.Request) (uuid.UUID, error) {
	owner, ok := auth.OwnerFrom(r.Context())
	if !ok {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	return owner, nil
}

func requester(r *http.Request) *uuid.UUID {
	owner, ok := auth.OwnerFrom(r.Context())
	if !ok {
		return nil
	}
	return &owner
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", domain.ErrInvalidRequest, name)
	}
	return id, nil
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidRequest, name)
	}
	return n, nil
}

// bodyReader remembers whether the body hit the request size limit
type bodyReader struct {
	r        io.Reader
	tooLarge bool
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		b.tooLarge = true
	}
	return n, err
}
