// Package photos provides the repository for the remote photos table.
package photos

import "context"

// Repository describes the photo-row writes the sync engine performs.
type Repository interface {
	// Create inserts a photo row referencing an uploaded object and returns
	// the remote photo id.
	Create(ctx context.Context, albumID, filePath, caption string, orderIndex int) (string, error)
}
