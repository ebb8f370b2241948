package photos

import (
	"context"
	"fmt"

	"github.com/adventurelog/uploadsync/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, albumID, filePath, caption string, orderIndex int) (string, error) {
	query := `
		INSERT INTO photos (album_id, file_path, caption, order_index)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query, albumID, filePath, caption, orderIndex).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert photo: %w", err)
	}
	return id, nil
}
