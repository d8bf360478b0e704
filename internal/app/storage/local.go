package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "speech-insight/internal/app/errors"
)

// DefaultUploadDir is where LocalStore writes when no directory is configured
const DefaultUploadDir = "data/audio_samples"

// LocalStore keeps files under a directory on local disk
type LocalStore struct {
	root string
}

var _ FileStore = (*LocalStore)(nil)

// NewLocalStore creates the root directory when missing
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		root = DefaultUploadDir
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Backend implements FileStore
func (s *LocalStore) Backend() string {
	return "local"
}

// Root returns the upload directory
func (s *LocalStore) Root() string {
	return s.root
}

// Save writes r to root/name. A partially written file is removed on error.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", apperrors.InvalidField("name", "must be a plain file name")
	}
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.ErrFileWriteFailed.With(err)
	}
	written, err := io.Copy(f, &contextReader{ctx: ctx, r: r})
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("wrote %d of %d bytes", written, size)
	}
	if err != nil {
		os.Remove(path)
		return "", apperrors.ErrFileWriteFailed.With(err)
	}
	return path, nil
}

// Open implements FileStore
func (s *LocalStore) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.ErrFileNotFound.With(fmt.Errorf("%s", location))
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes the file; a missing file is not an error
func (s *LocalStore) Delete(_ context.Context, location string) error {
	if err := os.Remove(location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
