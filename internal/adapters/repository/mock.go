package repository

import (
	"context"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFileRepository struct {
	mock.Mock
}

func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{}
}

func (m *MockFileRepository) Create(ctx context.Context, record domain.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFileRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]domain.FileRecord), args.Error(1)
}

func (m *MockFileRepository) SumSizeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileRepository) ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]domain.FileRecord, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.FileRecord), args.Error(1)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) OpenUsageByOwner(ctx context.Context, ownerID uuid.UUID) (int, int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockUploadSessionRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, fileID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, fileID, at)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindIdle(ctx context.Context, before time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUploadSessionRepository) UpsertChunk(ctx context.Context, sessionID uuid.UUID, receipt domain.ChunkReceipt) error {
	args := m.Called(ctx, sessionID, receipt)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) ListChunks(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkReceipt, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.ChunkReceipt), args.Error(1)
}

func (m *MockUploadSessionRepository) DeleteChunks(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockFileEventRepository struct {
	mock.Mock
}

func NewMockFileEventRepository() *MockFileEventRepository {
	return &MockFileEventRepository{}
}

func (m *MockFileEventRepository) Create(ctx context.Context, event domain.FileEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockFileEventRepository) FindByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.FileEvent, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).([]domain.FileEvent), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	fileRepo          *MockFileRepository
	uploadSessionRepo *MockUploadSessionRepository
	fileEventRepo     *MockFileEventRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		fileRepo:          NewMockFileRepository(),
		uploadSessionRepo: NewMockUploadSessionRepository(),
		fileEventRepo:     NewMockFileEventRepository(),
	}
}

// Execute records the call then runs fn against the same mocks. A non nil fn error wins.
func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)
	if err := fn(m); err != nil {
		return err
	}
	return args.Error(0)
}

func (m *MockUnitOfWork) FileRepo() port.FileRepository {
	return m.fileRepo
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) FileEventRepo() port.FileEventRepository {
	return m.fileEventRepo
}

func (m *MockUnitOfWork) GetFileRepoMock() *MockFileRepository {
	return m.fileRepo
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) GetFileEventRepoMock() *MockFileEventRepository {
	return m.fileEventRepo
}
