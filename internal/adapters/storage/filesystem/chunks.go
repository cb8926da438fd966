package filesystem

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ChunkStore keeps in-flight chunks as one file per (session, index)
type ChunkStore struct {
	root string
}

// NewChunkStore creates root if needed and returns a ChunkStore on it
func NewChunkStore(root string) (*ChunkStore, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create chunk dir: %w", err)
	}
	return &ChunkStore{root: root}, nil
}

func (s *ChunkStore) sessionDir(sessionID uuid.UUID) string {
	return filepath.Join(s.root, sessionID.String())
}

func (s *ChunkStore) chunkPath(sessionID uuid.UUID, index int) string {
	return filepath.Join(s.sessionDir(sessionID), fmt.Sprintf("%06d.chunk", index))
}

// Put stages the payload and renames it over any previous chunk at index
func (s *ChunkStore) Put(ctx context.Context, sessionID uuid.UUID, index int, payload io.Reader, maxSize int64, wantSize int64) (int64, error) {
	staged, err := stage(s.chunkPath(sessionID, index))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer staged.Abort()

	written, err := io.Copy(staged, io.LimitReader(ctxReader{ctx: ctx, r: payload}, maxSize+1))
	if err != nil {
		if ctx.Err() != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: writing chunk %d: %v", domain.ErrStorageFailure, index, err)
	}

	switch {
	case written == 0:
		return 0, fmt.Errorf("%w: empty payload", domain.ErrInvalidChunk)
	case written > maxSize:
		return 0, fmt.Errorf("%w: payload larger than %d bytes", domain.ErrInvalidChunk, maxSize)
	case wantSize > 0 && written != wantSize:
		return 0, fmt.Errorf("%w: chunk %d already received with %d bytes, got %d", domain.ErrInvalidChunk, index, wantSize, written)
	}

	if err := staged.Commit(); err != nil {
		return 0, fmt.Errorf("%w: storing chunk %d: %v", domain.ErrStorageFailure, index, err)
	}
	return written, nil
}

// Open opens a stored chunk
func (s *ChunkStore) Open(_ context.Context, sessionID uuid.UUID, index int) (io.ReadCloser, error) {
	f, err := os.Open(s.chunkPath(sessionID, index))
	if err != nil {
		return nil, fmt.Errorf("%w: opening chunk %d: %v", domain.ErrStorageFailure, index, err)
	}
	return f, nil
}

// Discard removes every chunk of a session
func (s *ChunkStore) Discard(_ context.Context, sessionID uuid.UUID) error {
	if err := os.RemoveAll(s.sessionDir(sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: discarding chunks: %v", domain.ErrStorageFailure, err)
	}
	return nil
}
