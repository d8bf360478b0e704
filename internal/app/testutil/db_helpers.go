package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"speech-insight/internal/app/model"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/repository/sqlite"
	"speech-insight/internal/app/storage"
)

// NewSQLiteStore opens a store in a temporary directory
func NewSQLiteStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// NewLocalStore creates a file store in a temporary directory
func NewLocalStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	files, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return files
}

// SeedAudio saves content as a file and creates its pending record
func SeedAudio(t *testing.T, store repository.Store, files storage.FileStore, original, content string) *model.AudioRecord {
	t.Helper()
	ctx := context.Background()

	ext := filepath.Ext(original)
	name := uuid.NewString() + ext
	location, err := files.Save(ctx, name, strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	record := &model.AudioRecord{
		Filename:         name,
		OriginalFilename: original,
		FilePath:         location,
		FileSizeBytes:    int64(len(content)),
		Format:           strings.TrimPrefix(ext, "."),
	}
	require.NoError(t, store.CreateAudio(ctx, record))
	return record
}
