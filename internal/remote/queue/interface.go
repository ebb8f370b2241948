// Package queue provides the repository for the remote upload_queue table:
// the platform-visible mirror of every locally staged upload intent.
package queue

import (
	"context"
	"time"

	"github.com/adventurelog/uploadsync/internal/models"
)

// Repository describes row operations over the remote queue table.
type Repository interface {
	// Create inserts a new intent row, normally with status pending.
	Create(ctx context.Context, intent *models.UploadIntent) error

	// ListActive returns the user's pending and uploading rows in creation
	// order. Rows abandoned in uploading by a crashed pass are included.
	ListActive(ctx context.Context, userID string) ([]*models.UploadIntent, error)

	// ListByUser returns every row for the user in creation order, newest
	// last. This is the externally visible queue snapshot.
	ListByUser(ctx context.Context, userID string) ([]*models.UploadIntent, error)

	// MarkUploading transitions a row to uploading and stamps the attempt
	// start time.
	MarkUploading(ctx context.Context, localID string, startedAt time.Time) error

	// MarkCompleted transitions a row to completed, recording the remote
	// identifiers and the completion time.
	MarkCompleted(ctx context.Context, localID, albumID string, photoIDs []string, completedAt time.Time) error

	// MarkFailed transitions a row to failed, records the error message and
	// increments the retry counter.
	MarkFailed(ctx context.Context, localID, message string) error

	// ResetToPending moves a failed row back to pending (manual retry).
	// Returns common.ErrorNotFound if the row is absent or not failed.
	ResetToPending(ctx context.Context, localID, userID string) error
}
