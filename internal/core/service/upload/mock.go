package upload

import (
	"context"
	"fileshare/internal/core/domain"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) StartSession(ctx context.Context, req domain.StartSessionRequest) (*domain.UploadSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) RecordChunk(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID, index int, payload io.Reader) (*domain.SessionProgress, error) {
	args := m.Called(ctx, sessionID, ownerID, index, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionProgress), args.Error(1)
}

func (m *MockUploadService) CancelSession(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, sessionID, ownerID)
	return args.Error(0)
}

func (m *MockUploadService) IsComplete(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadService) SessionStatus(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) (*domain.SessionProgress, error) {
	args := m.Called(ctx, sessionID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionProgress), args.Error(1)
}

func (m *MockUploadService) CompleteSession(ctx context.Context, sessionID uuid.UUID, ownerID uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, sessionID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockUploadService) UploadDirect(ctx context.Context, req domain.DirectUploadRequest, content io.Reader) (*domain.FileRecord, error) {
	args := m.Called(ctx, req, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}
