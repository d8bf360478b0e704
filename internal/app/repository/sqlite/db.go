package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"speech-insight/internal/app/repository"
)

// DriverName is the database/sql driver registered by go-sqlite3
const DriverName = "sqlite3"

// Open opens (creating when missing) the database at path and ensures the schema
func Open(ctx context.Context, path string) (*repository.SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(DriverName, fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	store := repository.NewSQLStore(db, DriverName)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
