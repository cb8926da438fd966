package storage

import (
	"context"
	"fileshare/internal/core/domain"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockContentStore struct {
	mock.Mock
}

func NewMockContentStore() *MockContentStore {
	return &MockContentStore{}
}

func (m *MockContentStore) Publish(ctx context.Context, key string, content io.Reader, size int64) (*domain.StoredObject, error) {
	args := m.Called(ctx, key, content, size)
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *MockContentStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockContentStore) ReadHead(ctx context.Context, key string, n int64) ([]byte, error) {
	args := m.Called(ctx, key, n)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockContentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockChunkStore struct {
	mock.Mock
}

func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{}
}

func (m *MockChunkStore) Put(ctx context.Context, sessionID uuid.UUID, index int, payload io.Reader, maxSize int64, wantSize int64) (int64, error) {
	args := m.Called(ctx, sessionID, index, payload, maxSize, wantSize)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChunkStore) Open(ctx context.Context, sessionID uuid.UUID, index int) (io.ReadCloser, error) {
	args := m.Called(ctx, sessionID, index)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockChunkStore) Discard(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
