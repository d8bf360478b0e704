package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/repository"
)

// DriverName is the database/sql driver registered by lib/pq
const DriverName = "postgres"

// Open connects to dsn, verifies the connection and ensures the schema
func Open(ctx context.Context, dsn string) (*repository.SQLStore, error) {
	if dsn == "" {
		return nil, apperrors.RequiredField("DATABASE_URL")
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := repository.NewSQLStore(db, DriverName)
	if err := store.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
