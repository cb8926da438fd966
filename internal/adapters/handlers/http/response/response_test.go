package response_test

import (
	"encoding/json"
	"errors"
	"fileshare/internal/adapters/handlers/http/response"
	"fileshare/internal/core/domain"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   domain.Kind
		wantDetail string
	}{
		{"invalid request", fmt.Errorf("%w: bad ttl", domain.ErrInvalidRequest), http.StatusBadRequest, domain.KindInvalidRequest, "invalid request: bad ttl"},
		{"invalid chunk", domain.ErrInvalidChunk, http.StatusBadRequest, domain.KindInvalidChunk, "invalid chunk"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, domain.KindUnauthenticated, "unauthenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, domain.KindForbidden, "forbidden"},
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound, domain.KindNotFound, "session not found"},
		{"already completed", domain.ErrAlreadyCompleted, http.StatusConflict, domain.KindAlreadyCompleted, "already completed"},
		{"size mismatch", domain.ErrSizeMismatch, http.StatusUnprocessableEntity, domain.KindSizeMismatch, "size mismatch"},
		{"quota", domain.ErrQuotaExceeded, http.StatusTooManyRequests, domain.KindQuotaExceeded, "quota exceeded"},
		{"storage", fmt.Errorf("%w: open /srv/data/files/ab: EIO", domain.ErrStorageFailure), http.StatusServiceUnavailable, domain.KindStorageFailure, "storage unavailable, retry later"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, domain.KindInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			status := response.Error(w, tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, w.Code)
			var body response.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.Equal(t, tt.wantDetail, body.Detail)
			assert.Empty(t, body.MissingChunks)
		})
	}
}

func TestError_IncompleteListsMissingChunks(t *testing.T) {
	w := httptest.NewRecorder()

	status := response.Error(w, &domain.IncompleteError{Missing: []int{1, 4}})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, domain.KindIncomplete, body.Kind)
	assert.Equal(t, []int{1, 4}, body.MissingChunks)
}
