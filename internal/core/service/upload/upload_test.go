package upload_test

import (
	"context"
	"errors"
	"fileshare/internal/adapters/eventbroker"
	"fileshare/internal/adapters/repository"
	"fileshare/internal/adapters/storage"
	"fileshare/internal/config"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fileshare/internal/core/service/upload"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() config.FileUploadConfig {
	return config.FileUploadConfig{
		MaxFileSize:            1000,
		MaxDirectUploadSize:    100,
		MaxChunkSize:           10,
		MaxTotalChunks:         50,
		MaxSessionsPerUser:     2,
		MaxPendingBytesPerUser: 500,
		MaxTTLHours:            48,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mocks struct {
	uow     *repository.MockUnitOfWork
	chunks  *storage.MockChunkStore
	content *storage.MockContentStore
	events  *eventbroker.MockPublisher
}

func newMockedService() (port.UploadService, mocks) {
	m := mocks{
		uow:     repository.NewMockUnitOfWork(),
		chunks:  storage.NewMockChunkStore(),
		content: storage.NewMockContentStore(),
		events:  eventbroker.NewMockPublisher(),
	}
	svc := upload.NewUploadService(m.uow, m.chunks, m.content, m.events, testConfig(), discardLogger())
	return svc, m
}

func TestUploadService_StartSession_InvalidRequest(t *testing.T) {
	svc, m := newMockedService()
	owner := uuid.New()

	tests := []struct {
		name string
		req  domain.StartSessionRequest
	}{
		{"zero size", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 0, TotalChunks: 1}},
		{"zero chunks", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 10, TotalChunks: 0}},
		{"too many chunks", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 100, TotalChunks: 51}},
		{"chunks cannot hold declared size", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 31, TotalChunks: 3}},
		{"more chunks than bytes", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 2, TotalChunks: 3}},
		{"above max file size", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 1001, TotalChunks: 50}},
		{"bad extension", domain.StartSessionRequest{Filename: "a.bat", DeclaredSize: 10, TotalChunks: 1}},
		{"unknown extension", domain.StartSessionRequest{Filename: "a.unknown", DeclaredSize: 10, TotalChunks: 1}},
		{"path in filename", domain.StartSessionRequest{Filename: "../a.pdf", DeclaredSize: 10, TotalChunks: 1}},
		{"negative ttl", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 10, TotalChunks: 1, TTLHours: -1}},
		{"ttl above max", domain.StartSessionRequest{Filename: "a.pdf", DeclaredSize: 10, TotalChunks: 1, TTLHours: 49}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.OwnerID = owner

			session, err := svc.StartSession(context.Background(), tt.req)

			assert.Nil(t, session)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
	m.uow.GetUploadSessionRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_StartSession_QuotaExceeded(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	sessionRepo := m.uow.GetUploadSessionRepoMock()

	sessionRepo.On("OpenUsageByOwner", ctx, owner).Return(2, int64(20), nil).Once()
	sessionRepo.On("OpenUsageByOwner", ctx, owner).Return(1, int64(495), nil).Once()
	req := domain.StartSessionRequest{OwnerID: owner, Filename: "a.pdf", DeclaredSize: 10, TotalChunks: 1}

	// Act
	_, tooManySessions := svc.StartSession(ctx, req)
	_, tooManyBytes := svc.StartSession(ctx, req)

	// Assert
	assert.ErrorIs(t, tooManySessions, domain.ErrQuotaExceeded)
	assert.ErrorIs(t, tooManyBytes, domain.ErrQuotaExceeded)
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_StartSession_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	sessionRepo := m.uow.GetUploadSessionRepoMock()

	sessionRepo.On("OpenUsageByOwner", ctx, owner).Return(1, int64(100), nil)
	sessionRepo.On("Create", ctx, mock.MatchedBy(func(s domain.UploadSession) bool {
		return s.OwnerID == owner && s.IsOpen() && s.TotalChunks == 3 && s.DeclaredSize == 25
	})).Return(nil)

	// Act
	session, err := svc.StartSession(ctx, domain.StartSessionRequest{
		OwnerID:      owner,
		Filename:     "report.pdf",
		DeclaredSize: 25,
		TotalChunks:  3,
		TTLHours:     24,
	})

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, "report.pdf", session.Filename)
	assert.Equal(t, 24, session.TTLHours)
	sessionRepo.AssertExpectations(t)
}

func TestUploadService_RecordChunk_Forbidden(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	session := &domain.UploadSession{ID: uuid.New(), OwnerID: uuid.New(), TotalChunks: 2, DeclaredSize: 20, Status: domain.UploadSessionStatusOpen}
	m.uow.GetUploadSessionRepoMock().On("FindByID", ctx, session.ID).Return(session, nil)

	// Act
	progress, err := svc.RecordChunk(ctx, session.ID, uuid.New(), 0, strings.NewReader("data"))

	// Assert
	assert.Nil(t, progress)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	m.chunks.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_RecordChunk_IndexOutOfRange(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	session := &domain.UploadSession{ID: uuid.New(), OwnerID: owner, TotalChunks: 2, DeclaredSize: 20, Status: domain.UploadSessionStatusOpen}
	m.uow.GetUploadSessionRepoMock().On("FindByID", ctx, session.ID).Return(session, nil)

	for _, index := range []int{-1, 2} {
		// Act
		_, err := svc.RecordChunk(ctx, session.ID, owner, index, strings.NewReader("data"))

		// Assert
		assert.ErrorIs(t, err, domain.ErrInvalidChunk)
	}
}

func TestUploadService_RecordChunk_PassesRemainingBytesAsLimit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	session := &domain.UploadSession{ID: uuid.New(), OwnerID: owner, TotalChunks: 3, DeclaredSize: 25, Status: domain.UploadSessionStatusOpen}
	sessionRepo := m.uow.GetUploadSessionRepoMock()
	payload := strings.NewReader("12345")

	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	sessionRepo.On("ListChunks", ctx, session.ID).Return([]domain.ChunkReceipt{{Index: 0, SizeBytes: 10}, {Index: 1, SizeBytes: 10}}, nil)
	m.chunks.On("Put", ctx, session.ID, 2, payload, int64(5), int64(0)).Return(int64(5), nil)
	m.uow.On("Execute", ctx, mock.Anything).Return(nil)
	sessionRepo.On("UpsertChunk", ctx, session.ID, domain.ChunkReceipt{Index: 2, SizeBytes: 5}).Return(nil)
	sessionRepo.On("Touch", ctx, session.ID, mock.Anything).Return(nil)

	// Act
	progress, err := svc.RecordChunk(ctx, session.ID, owner, 2, payload)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, progress.ReceivedCount)
	assert.Equal(t, int64(25), progress.ReceivedBytes)
	assert.True(t, progress.IsComplete())
	m.chunks.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestUploadService_CompleteSession_StorageFailureKeepsSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	session := &domain.UploadSession{ID: uuid.New(), OwnerID: owner, Filename: "a.txt", TotalChunks: 1, DeclaredSize: 4, Status: domain.UploadSessionStatusOpen}
	sessionRepo := m.uow.GetUploadSessionRepoMock()

	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	sessionRepo.On("ListChunks", ctx, session.ID).Return([]domain.ChunkReceipt{{Index: 0, SizeBytes: 4}}, nil)
	m.uow.GetFileRepoMock().On("Exists", ctx, mock.Anything).Return(false, nil)
	m.content.On("Publish", ctx, mock.Anything, mock.Anything, int64(4)).
		Return((*domain.StoredObject)(nil), errors.New("disk full"))

	// Act
	record, err := svc.CompleteSession(ctx, session.ID, owner)

	// Assert
	assert.Nil(t, record)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	m.uow.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	sessionRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.chunks.AssertNotCalled(t, "Discard", mock.Anything, mock.Anything)
}

func TestUploadService_CompleteSession_CommitFailureRemovesContent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	session := &domain.UploadSession{ID: uuid.New(), OwnerID: owner, Filename: "a.txt", TotalChunks: 1, DeclaredSize: 4, Status: domain.UploadSessionStatusOpen}
	sessionRepo := m.uow.GetUploadSessionRepoMock()
	fileRepo := m.uow.GetFileRepoMock()
	dbErr := errors.New("connection lost")

	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	sessionRepo.On("ListChunks", ctx, session.ID).Return([]domain.ChunkReceipt{{Index: 0, SizeBytes: 4}}, nil)
	fileRepo.On("Exists", ctx, mock.Anything).Return(false, nil)
	m.content.On("Publish", ctx, mock.Anything, mock.Anything, int64(4)).
		Return(&domain.StoredObject{SizeBytes: 4, Checksum: "abc"}, nil)
	m.uow.On("Execute", ctx, mock.Anything).Return(nil)
	fileRepo.On("Create", ctx, mock.Anything).Return(dbErr)
	m.content.On("Delete", mock.Anything, mock.Anything).Return(nil)

	// Act
	_, err := svc.CompleteSession(ctx, session.ID, owner)

	// Assert
	assert.ErrorIs(t, err, dbErr)
	m.content.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	m.chunks.AssertNotCalled(t, "Discard", mock.Anything, mock.Anything)
	m.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUploadService_CompleteSession_AlreadyCompleted(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	fileID := uuid.New()

	t.Run("Returns the produced record", func(t *testing.T) {
		svc, m := newMockedService()
		session := &domain.UploadSession{ID: uuid.New(), OwnerID: owner, Status: domain.UploadSessionStatusCompleted, FileID: &fileID}
		record := &domain.FileRecord{ID: fileID, OwnerID: owner}
		m.uow.GetUploadSessionRepoMock().On("FindByID", ctx, session.ID).Return(session, nil)
		m.uow.GetFileRepoMock().On("FindByID", ctx, fileID).Return(record, nil)

		got, err := svc.CompleteSession(ctx, session.ID, owner)

		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("Fails when the record is gone", func(t *testing.T) {
		svc, m := newMockedService()
		session := &domain.UploadSession{ID: uuid.New(), OwnerID: owner, Status: domain.UploadSessionStatusCompleted, FileID: &fileID}
		m.uow.GetUploadSessionRepoMock().On("FindByID", ctx, session.ID).Return(session, nil)
		m.uow.GetFileRepoMock().On("FindByID", ctx, fileID).Return((*domain.FileRecord)(nil), domain.ErrFileNotFound)

		_, err := svc.CompleteSession(ctx, session.ID, owner)

		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	})
}

func TestUploadService_EventFailureDoesNotFailUpload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := newMockedService()
	owner := uuid.New()
	fileRepo := m.uow.GetFileRepoMock()

	fileRepo.On("Exists", ctx, mock.Anything).Return(false, nil)
	m.content.On("Publish", ctx, mock.Anything, mock.Anything, int64(5)).
		Return(&domain.StoredObject{SizeBytes: 5, Checksum: "abc"}, nil)
	m.uow.On("Execute", ctx, mock.Anything).Return(nil)
	fileRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.events.On("Publish", ctx, mock.MatchedBy(func(e domain.FileEvent) bool {
		return e.Type == domain.FileEventUploaded
	})).Return(errors.New("broker down"))

	// Act
	record, err := svc.UploadDirect(ctx, domain.DirectUploadRequest{OwnerID: owner, Filename: "a.txt", SizeBytes: 5}, strings.NewReader("hello"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc", record.Checksum)
	assert.Equal(t, "text/plain; charset=utf-8", record.ContentType)
	assert.Nil(t, record.ExpiresAt)
	m.events.AssertExpectations(t)
}
