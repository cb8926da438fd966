package filesystem

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// stagedFile is a temp file next to its destination. Commit fsyncs then renames it over
// the destination, so readers see the old content or the new one, never a partial write.
type stagedFile struct {
	tmp  *os.File
	dest string
	done bool
}

func stage(dest string) (*stagedFile, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &stagedFile{tmp: tmp, dest: dest}, nil
}

func (s *stagedFile) Write(p []byte) (int, error) {
	return s.tmp.Write(p)
}

func (s *stagedFile) Commit() error {
	if err := s.tmp.Sync(); err != nil {
		return err
	}
	if err := s.tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(s.tmp.Name(), s.dest); err != nil {
		return err
	}
	s.done = true
	return nil
}

// Abort removes the temp file unless Commit succeeded. Safe to defer.
func (s *stagedFile) Abort() {
	if s.done {
		return
	}
	_ = s.tmp.Close()
	_ = os.Remove(s.tmp.Name())
}

// ctxReader stops a copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
