package metadata

import "context"

// Repository is a small local key/value store for client state that must
// survive restarts (access token, device info). Backed by the same SQLite
// database as the blob store.
type Repository interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
