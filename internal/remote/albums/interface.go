// Package albums provides the repository for the remote albums table.
package albums

import (
	"context"

	"github.com/adventurelog/uploadsync/internal/models"
)

// Repository describes the album writes the sync engine performs.
type Repository interface {
	// Create inserts an album row from the intent payload and returns the
	// remote album id.
	Create(ctx context.Context, userID string, payload models.AlbumPayload) (string, error)

	// UpdateDerived patches an album with fields derived after the photos
	// land: the cover photo path and the final photo count.
	UpdateDerived(ctx context.Context, albumID, coverPath string, photoCount int) error
}
