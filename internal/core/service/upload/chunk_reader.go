package upload

import (
	"context"
	"errors"
	"fileshare/internal/core/port"
	"io"

	"github.com/google/uuid"
)

// chunkReader streams the chunks of a session one after another, opening each lazily
type chunkReader struct {
	ctx       context.Context
	store     port.ChunkStore
	sessionID uuid.UUID
	total     int
	next      int
	current   io.ReadCloser
}

func newChunkReader(ctx context.Context, store port.ChunkStore, sessionID uuid.UUID, total int) *chunkReader {
	return &chunkReader{ctx: ctx, store: store, sessionID: sessionID, total: total}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	for {
		if c.current == nil {
			if c.next >= c.total {
				return 0, io.EOF
			}
			rc, err := c.store.Open(c.ctx, c.sessionID, c.next)
			if err != nil {
				return 0, err
			}
			c.current = rc
			c.next++
		}

		n, err := c.current.Read(p)
		if errors.Is(err, io.EOF) {
			c.current.Close()
			c.current = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *chunkReader) Close() error {
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	return err
}
