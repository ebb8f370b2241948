// Package localdb opens the SQLite staging database, applies the embedded
// goose migrations and hands out the local repositories.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adventurelog/uploadsync/internal/migrations"
	"github.com/adventurelog/uploadsync/internal/repositories/blobs"
	"github.com/adventurelog/uploadsync/internal/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the local stores backed by one SQLite database.
type Repositories struct {
	Blobs    blobs.Repository
	Metadata metadata.Repository
	DB       *sql.DB
}

// RunMigrations applies all embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the staging database at dsn,
// migrates it and returns the repositories bound to it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Blobs:    blobs.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
