package access_test

import (
	"context"
	"errors"
	"fileshare/internal/adapters/eventbroker"
	"fileshare/internal/adapters/repository"
	"fileshare/internal/adapters/repository/memory"
	"fileshare/internal/adapters/storage"
	"fileshare/internal/adapters/storage/filesystem"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fileshare/internal/core/service/access"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc     port.AccessService
	uow     port.UnitOfWork
	content port.ContentStore
}

func newHarness(t *testing.T) harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	content, err := filesystem.NewContentStore(t.TempDir(), logger)
	require.NoError(t, err)
	uow := memory.NewUnitOfWork()
	return harness{
		svc:     access.NewAccessService(uow, content, eventbroker.NewNoopPublisher(logger), logger),
		uow:     uow,
		content: content,
	}
}

func (h harness) store(t *testing.T, owner uuid.UUID, filename, data string, isPublic bool, createdAt time.Time, expiresAt *time.Time) domain.FileRecord {
	t.Helper()
	ctx := context.Background()
	ct := domain.ContentTypeOf(filename)
	record := domain.FileRecord{
		ID:          uuid.New(),
		OwnerID:     owner,
		Filename:    filename,
		SizeBytes:   int64(len(data)),
		ContentType: ct.MimeType,
		Category:    ct.Category,
		IsPublic:    isPublic,
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
	}
	record.StorageKey = domain.StorageKeyFor(record.ID)

	obj, err := h.content.Publish(ctx, record.StorageKey, strings.NewReader(data), record.SizeBytes)
	require.NoError(t, err)
	record.Checksum = obj.Checksum
	require.NoError(t, h.uow.FileRepo().Create(ctx, record))
	return record
}

func TestAccessService_Resolve_ConcurrentDownloadsAreCounted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness(t)
	record := h.store(t, uuid.New(), "hello.txt", "hello", true, time.Now(), nil)
	const readers = 5
	var wg sync.WaitGroup

	// Act
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle, err := h.svc.Resolve(ctx, record.ID, nil)
			if !assert.NoError(t, err) {
				return
			}
			defer handle.Close()
			data, err := io.ReadAll(handle.Content)
			assert.NoError(t, err)
			assert.Equal(t, "hello", string(data))
		}()
	}
	wg.Wait()

	// Assert
	stored, err := h.uow.FileRepo().FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(readers), stored.DownloadCount)
}

func TestAccessService_Resolve_PrivateFile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := uuid.New()
	stranger := uuid.New()
	record := h.store(t, owner, "secret.txt", "secret", false, time.Now(), nil)

	tests := []struct {
		name      string
		requester *uuid.UUID
		wantErr   error
	}{
		{"anonymous", nil, domain.ErrForbidden},
		{"another user", &stranger, domain.ErrForbidden},
		{"owner", &owner, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle, err := h.svc.Resolve(ctx, record.ID, tt.requester)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer handle.Close()
			assert.Equal(t, "text/plain; charset=utf-8", handle.ContentType)
			assert.Equal(t, int64(1), handle.Record.DownloadCount)
		})
	}
}

func TestAccessService_Resolve_NotFound(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := uuid.New()

	t.Run("Unknown id", func(t *testing.T) {
		_, err := h.svc.Resolve(ctx, uuid.New(), &owner)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Expired before the sweep", func(t *testing.T) {
		expiredAt := time.Now().Add(-time.Minute)
		record := h.store(t, owner, "old.txt", "old", true, expiredAt.Add(-time.Hour), &expiredAt)

		_, err := h.svc.Resolve(ctx, record.ID, &owner)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Bytes missing", func(t *testing.T) {
		record := h.store(t, owner, "gone.txt", "gone", true, time.Now(), nil)
		require.NoError(t, h.content.Delete(ctx, record.StorageKey))

		_, err := h.svc.Resolve(ctx, record.ID, &owner)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		stored, err := h.uow.FileRepo().FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.DownloadCount)
	})
}

func TestAccessService_Describe(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := uuid.New()

	t.Run("Text files get a snippet", func(t *testing.T) {
		body := strings.Repeat("é", 600)
		record := h.store(t, owner, "long.md", body, true, time.Now(), nil)

		preview, err := h.svc.Describe(ctx, record.ID, nil)

		require.NoError(t, err)
		assert.Len(t, preview.Snippet, 1024)
		assert.True(t, strings.HasPrefix(body, preview.Snippet))

		stored, err := h.uow.FileRepo().FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.DownloadCount, "previews are not downloads")
	})

	t.Run("Other files have none", func(t *testing.T) {
		record := h.store(t, owner, "photo.png", "\x89PNG", true, time.Now(), nil)

		preview, err := h.svc.Describe(ctx, record.ID, nil)

		require.NoError(t, err)
		assert.Empty(t, preview.Snippet)
		assert.Equal(t, domain.CategoryImage, preview.Record.Category)
	})

	t.Run("Private files are forbidden", func(t *testing.T) {
		record := h.store(t, owner, "private.txt", "x", false, time.Now(), nil)

		_, err := h.svc.Describe(ctx, record.ID, nil)

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAccessService_ToggleVisibility(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness(t)
	owner := uuid.New()
	record := h.store(t, owner, "a.txt", "a", false, time.Now(), nil)

	// Act
	_, forbidden := h.svc.ToggleVisibility(ctx, record.ID, uuid.New())
	first, err1 := h.svc.ToggleVisibility(ctx, record.ID, owner)
	second, err2 := h.svc.ToggleVisibility(ctx, record.ID, owner)

	// Assert
	assert.ErrorIs(t, forbidden, domain.ErrForbidden)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, first.IsPublic)
	assert.False(t, second.IsPublic)
}

func TestAccessService_Delete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness(t)
	owner := uuid.New()
	record := h.store(t, owner, "a.txt", "a", true, time.Now(), nil)

	// Act
	forbidden := h.svc.Delete(ctx, record.ID, uuid.New())
	err := h.svc.Delete(ctx, record.ID, owner)

	// Assert
	assert.ErrorIs(t, forbidden, domain.ErrForbidden)
	require.NoError(t, err)
	_, err = h.uow.FileRepo().FindByID(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.content.Open(ctx, record.StorageKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, h.svc.Delete(ctx, record.ID, owner), domain.ErrNotFound)
}

func TestAccessService_Delete_StorageFailureKeepsRecord(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockContent := storage.NewMockContentStore()
	mockEvents := eventbroker.NewMockPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := access.NewAccessService(mockUow, mockContent, mockEvents, logger)

	owner := uuid.New()
	record := &domain.FileRecord{ID: uuid.New(), OwnerID: owner, StorageKey: "files/ab/key"}
	storageErr := errors.New("permission denied")
	fileRepo := mockUow.GetFileRepoMock()

	fileRepo.On("FindByID", ctx, record.ID).Return(record, nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	fileRepo.On("Delete", ctx, record.ID).Return(nil)
	mockContent.On("Delete", ctx, record.StorageKey).Return(storageErr)

	// Act
	err := svc.Delete(ctx, record.ID, owner)

	// Assert
	assert.ErrorIs(t, err, storageErr)
	mockEvents.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAccessService_ListOwned(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness(t)
	owner := uuid.New()
	base := time.Now().Add(-time.Hour)
	oldest := h.store(t, owner, "1.txt", "1", false, base, nil)
	middle := h.store(t, owner, "2.txt", "2", false, base.Add(time.Minute), nil)
	newest := h.store(t, owner, "3.txt", "3", false, base.Add(2*time.Minute), nil)
	h.store(t, uuid.New(), "other.txt", "x", true, base, nil)

	// Act
	all, errAll := h.svc.ListOwned(ctx, owner, 0, 0)
	page, errPage := h.svc.ListOwned(ctx, owner, 1, 1)
	_, errOffset := h.svc.ListOwned(ctx, owner, 10, -1)
	none, errNone := h.svc.ListOwned(ctx, uuid.New(), 10, 0)

	// Assert
	require.NoError(t, errAll)
	require.NoError(t, errPage)
	require.NoError(t, errNone)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)
	assert.ErrorIs(t, errOffset, domain.ErrInvalidRequest)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
