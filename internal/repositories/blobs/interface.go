package blobs

import (
	"context"

	"github.com/adventurelog/uploadsync/internal/models"
)

// Repository is the durable local store for staged photo bytes, keyed by the
// intent's local ID. Entries survive process restarts; they are created when
// an intent is queued and deleted exactly once, when the intent completes.
type Repository interface {
	// Put stores the ordered photo list plus a creation timestamp,
	// overwriting any existing entry for the same key.
	Put(ctx context.Context, localID string, photos []models.StagedPhoto) error

	// Get returns the stored record, or common.ErrorNotFound if the key is
	// absent. Read-only.
	Get(ctx context.Context, localID string) (*models.BlobRecord, error)

	// Delete removes the record. Deleting a missing key is not an error.
	Delete(ctx context.Context, localID string) error
}
