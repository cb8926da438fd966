package minio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fileshare/internal/config"
	"fileshare/internal/core/domain"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is a content store backed by a minio bucket
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter, creating the bucket when missing
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// countingReader counts the bytes read through it and remembers hitting EOF
type countingReader struct {
	r   io.Reader
	n   int64
	eof bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if errors.Is(err, io.EOF) {
		c.eof = true
	}
	return n, err
}

// Publish uploads exactly size bytes of content with a single PutObject. The object only
// becomes visible once the upload completes.
func (a *Adapter) Publish(ctx context.Context, key string, content io.Reader, size int64) (*domain.StoredObject, error) {
	hash := sha256.New()
	counter := &countingReader{r: io.TeeReader(content, hash)}

	_, err := a.client.PutObject(ctx, a.config.BucketName, key, counter, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		if counter.eof && counter.n != size {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrSizeMismatch, size, counter.n)
		}
		if errors.Is(err, domain.ErrStorageFailure) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to put object: %v", domain.ErrStorageFailure, err)
	}

	// a longer stream than announced must not leave a truncated object behind
	var extra [1]byte
	if n, _ := content.Read(extra[:]); n > 0 {
		if rmErr := a.Delete(ctx, key); rmErr != nil {
			a.logger.Error("failed to remove oversized object", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrSizeMismatch, size)
	}

	return &domain.StoredObject{
		Key:       key,
		SizeBytes: counter.n,
		Checksum:  hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// Open retrieves an object
func (a *Adapter) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get object: %v", domain.ErrStorageFailure, err)
	}

	// GetObject is lazy, Stat surfaces a missing key
	if _, err := object.Stat(); err != nil {
		object.Close()
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: content missing", domain.ErrFileNotFound)
		}
		return nil, fmt.Errorf("%w: failed to stat object: %v", domain.ErrStorageFailure, err)
	}
	return object, nil
}

// ReadHead reads the first n bytes of an object
func (a *Adapter) ReadHead(ctx context.Context, key string, n int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(0, n-1); err != nil {
		return nil, fmt.Errorf("failed to set range: %w", err)
	}

	object, err := a.client.GetObject(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get partial object: %v", domain.ErrStorageFailure, err)
	}
	defer object.Close()

	buffer, err := io.ReadAll(io.LimitReader(object, n))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: content missing", domain.ErrFileNotFound)
		}
		return nil, fmt.Errorf("%w: failed to read header bytes: %v", domain.ErrStorageFailure, err)
	}
	return buffer, nil
}

// Delete deletes an object from storage. Missing objects are not an error.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("%w: failed to delete object: %v", domain.ErrStorageFailure, err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName))

	return nil
}
