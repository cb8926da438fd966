package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fileshare/internal/core/domain"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ContentStore keeps published file bytes under a root directory
type ContentStore struct {
	root   string
	logger *slog.Logger
}

// NewContentStore creates root if needed and returns a ContentStore on it
func NewContentStore(root string, logger *slog.Logger) (*ContentStore, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create content dir: %w", err)
	}
	return &ContentStore{root: root, logger: logger}, nil
}

func (s *ContentStore) path(key string) (string, error) {
	if !filepath.IsLocal(key) {
		return "", fmt.Errorf("%w: invalid storage key %q", domain.ErrStorageFailure, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Publish copies exactly size bytes of content under key. Fewer or more bytes fail with
// domain.ErrSizeMismatch and nothing becomes visible.
func (s *ContentStore) Publish(ctx context.Context, key string, content io.Reader, size int64) (*domain.StoredObject, error) {
	dest, err := s.path(key)
	if err != nil {
		return nil, err
	}

	staged, err := stage(dest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer staged.Abort()

	hash := sha256.New()
	written, err := io.Copy(io.MultiWriter(staged, hash), io.LimitReader(ctxReader{ctx: ctx, r: content}, size+1))
	if err != nil {
		if errors.Is(err, domain.ErrStorageFailure) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: writing %s: %v", domain.ErrStorageFailure, key, err)
	}
	if written != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrSizeMismatch, size, written)
	}

	if err := staged.Commit(); err != nil {
		return nil, fmt.Errorf("%w: publishing %s: %v", domain.ErrStorageFailure, key, err)
	}

	return &domain.StoredObject{
		Key:       key,
		SizeBytes: written,
		Checksum:  hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// Open opens the bytes under key. An unlinked file stays readable through the returned handle.
func (s *ContentStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: content missing", domain.ErrFileNotFound)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return f, nil
}

// ReadHead returns up to n first bytes under key
func (s *ContentStore) ReadHead(ctx context.Context, key string, n int64) ([]byte, error) {
	f, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buffer, err := io.ReadAll(io.LimitReader(f, n))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrStorageFailure, key, err)
	}
	return buffer, nil
}

// Delete removes the bytes under key. Deleting a missing key is not an error.
func (s *ContentStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: deleting %s: %v", domain.ErrStorageFailure, key, err)
	}

	s.logger.Debug("content deleted", slog.String("key", key))
	return nil
}
