package file_test

import (
	"bytes"
	"encoding/json"
	"fileshare/internal/adapters/handlers/http/auth"
	"fileshare/internal/adapters/handlers/http/chi"
	"fileshare/internal/adapters/handlers/http/chi/v1/file"
	"fileshare/internal/config"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/service/access"
	"fileshare/internal/core/service/upload"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() config.FileUploadConfig {
	return config.FileUploadConfig{
		MaxFileSize:         1000,
		MaxDirectUploadSize: 100,
		MaxChunkSize:        10,
		MaxTotalChunks:      50,
		MaxTTLHours:         48,
		IdleSessionTimeout:  time.Hour,
	}
}

type fixture struct {
	router  http.Handler
	uploads *upload.MockUploadService
	access  *access.MockAccessService
	owner   uuid.UUID
	token   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testConfig()
	uploads := upload.NewMockUploadService()
	accessService := access.NewMockAccessService()
	handler := file.NewFileHandlerV1(uploads, accessService, auth.NewMiddleware(testSecret, discardLogger), cfg, time.Minute, discardLogger)

	owner := uuid.New()
	token, err := auth.IssueToken(testSecret, owner, time.Hour)
	require.NoError(t, err)

	return &fixture{
		router: chi.NewRouter(discardLogger, handler, chi.RouterOptions{
			MaxBodyBytes: cfg.MaxRequestBody(),
		}),
		uploads: uploads,
		access:  accessService,
		owner:   owner,
		token:   token,
	}
}

// do sends an authenticated request through the router
func (f *fixture) do(method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+f.token)
	return f.serve(req)
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func sampleRecord(owner uuid.UUID) domain.FileRecord {
	id := uuid.New()
	return domain.FileRecord{
		ID:          id,
		OwnerID:     owner,
		Filename:    "notes.txt",
		SizeBytes:   11,
		StorageKey:  domain.StorageKeyFor(id),
		Checksum:    "abc123",
		ContentType: "text/plain; charset=utf-8",
		Category:    domain.CategoryText,
		CreatedAt:   time.Now().UTC(),
	}
}
