package storage

import (
	"context"
	"io"
)

// FileStore keeps uploaded audio. Save returns the location later passed to Open and Delete.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
	Backend() string
}
