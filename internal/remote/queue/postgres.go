package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/dbx"
	"github.com/adventurelog/uploadsync/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or
// *sql.Tx). Payload, file descriptors and remote photo ids are stored as
// JSONB.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const intentColumns = `local_id, user_id, resource_type, payload, files, status,
	retry_count, error_message, remote_album_id, remote_photo_ids,
	created_at, upload_started_at, upload_completed_at`

func (r *PostgresRepository) Create(ctx context.Context, intent *models.UploadIntent) error {
	payload, err := json.Marshal(intent.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	files, err := json.Marshal(intent.Files)
	if err != nil {
		return fmt.Errorf("failed to encode file descriptors: %w", err)
	}

	query := `
		INSERT INTO upload_queue (local_id, user_id, resource_type, payload, files, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		intent.LocalID, intent.UserID, intent.ResourceType, payload, files,
		string(intent.Status), intent.RetryCount, intent.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert queue row: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]*models.UploadIntent, error) {
	query := `SELECT ` + intentColumns + `
		FROM upload_queue
		WHERE user_id=$1 AND status IN ('pending', 'uploading')
		ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.UploadIntent, error) {
	query := `SELECT ` + intentColumns + `
		FROM upload_queue
		WHERE user_id=$1
		ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.UploadIntent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue rows: %w", err)
	}
	defer rows.Close()

	var result []*models.UploadIntent
	for rows.Next() {
		item, err := scanIntent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanIntent(rows *sql.Rows) (*models.UploadIntent, error) {
	var (
		item      models.UploadIntent
		status    string
		payload   []byte
		files     []byte
		errMsg    sql.NullString
		albumID   sql.NullString
		photoIDs  []byte
		startedAt sql.NullTime
		doneAt    sql.NullTime
	)

	if err := rows.Scan(&item.LocalID, &item.UserID, &item.ResourceType,
		&payload, &files, &status, &item.RetryCount, &errMsg, &albumID,
		&photoIDs, &item.CreatedAt, &startedAt, &doneAt); err != nil {
		return nil, err
	}

	item.Status = models.UploadStatus(status)
	if err := json.Unmarshal(payload, &item.Payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &item.Files); err != nil {
			return nil, fmt.Errorf("failed to decode file descriptors: %w", err)
		}
	}
	if len(photoIDs) > 0 {
		if err := json.Unmarshal(photoIDs, &item.RemotePhotoIDs); err != nil {
			return nil, fmt.Errorf("failed to decode remote photo ids: %w", err)
		}
	}
	if errMsg.Valid {
		item.ErrorMessage = errMsg.String
	}
	if albumID.Valid {
		item.RemoteAlbumID = albumID.String
	}
	if startedAt.Valid {
		item.UploadStartedAt = &startedAt.Time
	}
	if doneAt.Valid {
		item.UploadCompletedAt = &doneAt.Time
	}
	return &item, nil
}

func (r *PostgresRepository) MarkUploading(ctx context.Context, localID string, startedAt time.Time) error {
	query := `UPDATE upload_queue SET status='uploading', upload_started_at=$2 WHERE local_id=$1`
	return r.expectOneRow(ctx, query, localID, startedAt)
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, localID, albumID string, photoIDs []string, completedAt time.Time) error {
	encoded, err := json.Marshal(photoIDs)
	if err != nil {
		return fmt.Errorf("failed to encode remote photo ids: %w", err)
	}
	query := `UPDATE upload_queue
		SET status='completed', remote_album_id=$2, remote_photo_ids=$3,
			error_message=NULL, upload_completed_at=$4
		WHERE local_id=$1`
	return r.expectOneRow(ctx, query, localID, albumID, encoded, completedAt)
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, localID, message string) error {
	query := `UPDATE upload_queue
		SET status='failed', error_message=$2, retry_count=retry_count+1
		WHERE local_id=$1`
	return r.expectOneRow(ctx, query, localID, message)
}

func (r *PostgresRepository) ResetToPending(ctx context.Context, localID, userID string) error {
	query := `UPDATE upload_queue
		SET status='pending', error_message=NULL
		WHERE local_id=$1 AND user_id=$2 AND status='failed'`
	res, err := r.db.ExecContext(ctx, query, localID, userID)
	if err != nil {
		return fmt.Errorf("failed to reset queue row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) expectOneRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update queue row: %w", err)
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
