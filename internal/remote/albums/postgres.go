package albums

import (
	"context"
	"fmt"

	"github.com/adventurelog/uploadsync/internal/dbx"
	"github.com/adventurelog/uploadsync/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, p models.AlbumPayload) (string, error) {
	query := `
		INSERT INTO albums (user_id, title, description, location_name, latitude, longitude, country_code, visibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		userID, p.Title, p.Description, p.LocationName, p.Latitude, p.Longitude,
		p.CountryCode, p.Visibility).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert album: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) UpdateDerived(ctx context.Context, albumID, coverPath string, photoCount int) error {
	query := `UPDATE albums SET cover_photo_path=$2, photo_count=$3 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query, albumID, coverPath, photoCount)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
	return nil
}
