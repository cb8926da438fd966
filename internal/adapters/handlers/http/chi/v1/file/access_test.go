package file_test

import (
	"context"
	"fileshare/internal/adapters/handlers/http/chi/v1/file"
	"fileshare/internal/core/domain"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDownloadFileV1(t *testing.T) {
	t.Run("success - anonymous reader of a public file", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		record := sampleRecord(uuid.New())
		record.Filename = "report 2024.txt"
		f.access.On("Resolve", mock.Anything, record.ID, (*uuid.UUID)(nil)).Return(&domain.ContentHandle{
			Record:      record,
			ContentType: record.ContentType,
			Content:     io.NopCloser(strings.NewReader("hello world")),
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+record.ID.String()+"/download", nil)

		// Act
		w := f.serve(req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hello world", w.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "11", w.Header().Get("Content-Length"))
		assert.Equal(t, `attachment; filename="report 2024.txt"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, `"abc123"`, w.Header().Get("ETag"))
		f.access.AssertExpectations(t)
	})

	t.Run("success - owner passes as requester", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		record := sampleRecord(f.owner)
		owner := f.owner
		f.access.On("Resolve", mock.Anything, record.ID, &owner).Return(&domain.ContentHandle{
			Record:      record,
			ContentType: record.ContentType,
			Content:     io.NopCloser(strings.NewReader("hello world")),
		}, nil)

		// Act
		w := f.do(http.MethodGet, "/api/v1/files/"+record.ID.String()+"/download", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		f.access.AssertExpectations(t)
	})

	t.Run("success - stream is not bound by the request timeout", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		record := sampleRecord(f.owner)
		var resolveCtx context.Context
		f.access.On("Resolve", mock.Anything, record.ID, mock.Anything).
			Run(func(args mock.Arguments) { resolveCtx = args.Get(0).(context.Context) }).
			Return(&domain.ContentHandle{
				Record:      record,
				ContentType: record.ContentType,
				Content:     io.NopCloser(strings.NewReader("hello world")),
			}, nil)

		// Act
		w := f.do(http.MethodGet, "/api/v1/files/"+record.ID.String()+"/download", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resolveCtx)
		_, hasDeadline := resolveCtx.Deadline()
		assert.False(t, hasDeadline)
	})

	t.Run("error - private file", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.access.On("Resolve", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
			Return(nil, fmt.Errorf("%w: file is private", domain.ErrForbidden))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+uuid.NewString()+"/download", nil)

		// Act
		w := f.serve(req)

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("error - invalid token is rejected even on public routes", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+uuid.NewString()+"/download", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		// Act
		w := f.serve(req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.access.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - not found", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.access.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrFileNotFound)

		// Act
		w := f.do(http.MethodGet, "/api/v1/files/"+uuid.NewString()+"/download", nil)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPreviewFileV1(t *testing.T) {
	// Arrange
	f := newFixture(t)
	record := sampleRecord(uuid.New())
	record.IsPublic = true
	f.access.On("Describe", mock.Anything, record.ID, (*uuid.UUID)(nil)).
		Return(&domain.FilePreview{Record: record, Snippet: "hello"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+record.ID.String()+"/preview", nil)

	// Act
	w := f.serve(req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[file.V1PreviewResponse](t, w)
	assert.Equal(t, "text", resp.PreviewType)
	assert.Equal(t, "hello", resp.Snippet)
	assert.Equal(t, record.ID, resp.FileID)
}

func TestPreviewFileV1_BoundedByRequestTimeout(t *testing.T) {
	// Arrange
	f := newFixture(t)
	record := sampleRecord(f.owner)
	var describeCtx context.Context
	f.access.On("Describe", mock.Anything, record.ID, mock.Anything).
		Run(func(args mock.Arguments) { describeCtx = args.Get(0).(context.Context) }).
		Return(&domain.FilePreview{Record: record}, nil)

	// Act
	w := f.do(http.MethodGet, "/api/v1/files/"+record.ID.String()+"/preview", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, describeCtx)
	_, hasDeadline := describeCtx.Deadline()
	assert.True(t, hasDeadline)
}

func TestListFilesV1(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		records := []domain.FileRecord{sampleRecord(f.owner), sampleRecord(f.owner)}
		f.access.On("ListOwned", mock.Anything, f.owner, 10, 20).Return(records, nil)

		// Act
		w := f.do(http.MethodGet, "/api/v1/files/?limit=10&offset=20", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[file.V1ListFilesResponse](t, w)
		assert.Len(t, resp.Files, 2)
		assert.Equal(t, 10, resp.Limit)
		assert.Equal(t, 20, resp.Offset)
	})

	t.Run("success - empty list", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.access.On("ListOwned", mock.Anything, f.owner, 0, 0).Return([]domain.FileRecord{}, nil)

		// Act
		w := f.do(http.MethodGet, "/api/v1/files/", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"files":[]`)
	})

	t.Run("error - bad limit", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		w := f.do(http.MethodGet, "/api/v1/files/?limit=ten", nil)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestToggleVisibilityV1(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		record := sampleRecord(f.owner)
		record.IsPublic = true
		f.access.On("ToggleVisibility", mock.Anything, record.ID, f.owner).Return(&record, nil)

		// Act
		w := f.do(http.MethodPost, "/api/v1/files/"+record.ID.String()+"/visibility", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, file.V1VisibilityResponse{FileID: record.ID, IsPublic: true}, decode[file.V1VisibilityResponse](t, w))
	})

	t.Run("error - not the owner", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.access.On("ToggleVisibility", mock.Anything, mock.Anything, f.owner).Return(nil, domain.ErrForbidden)

		// Act
		w := f.do(http.MethodPost, "/api/v1/files/"+uuid.NewString()+"/visibility", nil)

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestDeleteFileV1(t *testing.T) {
	// Arrange
	f := newFixture(t)
	fileID := uuid.New()
	f.access.On("Delete", mock.Anything, fileID, f.owner).Return(nil)

	// Act
	w := f.do(http.MethodDelete, "/api/v1/files/"+fileID.String(), nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted", decode[file.V1StatusResponse](t, w).Status)
	f.access.AssertExpectations(t)
}
