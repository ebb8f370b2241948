package blobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/dbx"
	"github.com/adventurelog/uploadsync/internal/models"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Put replaces the whole photo set transactionally so a reload never sees a
// half-written entry.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, localID string, photos []models.StagedPhoto) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM blob_photos WHERE local_id=?`, localID); err != nil {
			return fmt.Errorf("failed to clear staged photos: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO blobs (local_id, created_at) VALUES (?, ?)
			ON CONFLICT(local_id) DO UPDATE SET created_at = excluded.created_at
		`, localID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert blob record: %w", err)
		}

		for _, p := range photos {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO blob_photos (local_id, order_index, local_path, mime_type, size, caption, data)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, localID, p.OrderIndex, p.LocalPath, p.MimeType, p.Size, p.Caption, p.Data)
			if err != nil {
				return fmt.Errorf("failed to stage photo %d: %w", p.OrderIndex, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Get(ctx context.Context, localID string) (*models.BlobRecord, error) {
	rec := &models.BlobRecord{LocalID: localID}

	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM blobs WHERE local_id=?`, localID).Scan(&rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob record: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_index, local_path, mime_type, size, caption, data
		FROM blob_photos WHERE local_id=? ORDER BY order_index
	`, localID)
	if err != nil {
		return nil, fmt.Errorf("failed to select staged photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.StagedPhoto
		if err := rows.Scan(&p.OrderIndex, &p.LocalPath, &p.MimeType, &p.Size, &p.Caption, &p.Data); err != nil {
			return nil, err
		}
		rec.Photos = append(rec.Photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM blob_photos WHERE local_id=?`, localID); err != nil {
			return fmt.Errorf("failed to delete staged photos: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM blobs WHERE local_id=?`, localID); err != nil {
			return fmt.Errorf("failed to delete blob record: %w", err)
		}
		return nil
	})
}
