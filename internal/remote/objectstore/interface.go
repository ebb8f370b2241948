// Package objectstore uploads photo bytes to S3-compatible object storage.
package objectstore

import "context"

// Uploader puts raw bytes under a key. No overwrite protection is assumed
// beyond collision-resistant key naming.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}
