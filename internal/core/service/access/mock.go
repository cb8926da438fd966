package access

import (
	"context"
	"fileshare/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccessService is a mock implementation of AccessService
type MockAccessService struct {
	mock.Mock
}

// NewMockAccessService creates a new MockAccessService
func NewMockAccessService() *MockAccessService {
	return &MockAccessService{}
}

func (m *MockAccessService) Resolve(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.ContentHandle, error) {
	args := m.Called(ctx, fileID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentHandle), args.Error(1)
}

func (m *MockAccessService) Describe(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.FilePreview, error) {
	args := m.Called(ctx, fileID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilePreview), args.Error(1)
}

func (m *MockAccessService) ToggleVisibility(ctx context.Context, fileID uuid.UUID, ownerID uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, fileID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockAccessService) Delete(ctx context.Context, fileID uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, fileID, ownerID)
	return args.Error(0)
}

func (m *MockAccessService) ListOwned(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]domain.FileRecord), args.Error(1)
}
