// Package models defines the upload-queue types shared by the local stores,
// the remote repositories and the sync engine.
package models

import "time"

// UploadStatus is the state of an intent in the remote queue table.
//
// Transitions are forward-only, except failed → pending on manual retry:
//
//	pending   → uploading   (picked up by a sync pass)
//	uploading → completed   (all remote writes succeeded)
//	uploading → failed      (any remote write failed)
//	failed    → pending     (manual retry)
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusCompleted UploadStatus = "completed"
	StatusFailed    UploadStatus = "failed"
)

// Active reports whether the intent is eligible for a sync pass. A row left
// in "uploading" by a crashed pass counts as active and is retried.
func (s UploadStatus) Active() bool {
	return s == StatusPending || s == StatusUploading
}

// HasLocalBytes reports whether the durable local store is expected to still
// hold the staged photo bytes for an intent in this state. Bytes are purged
// exactly once, on the transition into completed.
func (s UploadStatus) HasLocalBytes() bool {
	return s == StatusPending || s == StatusUploading || s == StatusFailed
}

// AlbumPayload is the metadata snapshot an intent materializes into a remote
// album row. Immutable once queued.
type AlbumPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	LocationName string   `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	CountryCode  string   `json:"country_code,omitempty"`
	Visibility   string   `json:"visibility,omitempty"`
	PhotoCount   int      `json:"photo_count"`
}

// FileDescriptor describes one photo of an intent: metadata only, the bytes
// live in the durable local store under the intent's local ID.
type FileDescriptor struct {
	LocalPath  string `json:"local_path"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	Caption    string `json:"caption,omitempty"`
	OrderIndex int    `json:"order_index"`
}

// StagedPhoto is a FileDescriptor plus the raw bytes, as held by the durable
// local store.
type StagedPhoto struct {
	FileDescriptor
	Data []byte `json:"-"`
}

// Descriptors strips the bytes off a staged photo list.
func Descriptors(photos []StagedPhoto) []FileDescriptor {
	out := make([]FileDescriptor, len(photos))
	for i, p := range photos {
		out[i] = p.FileDescriptor
	}
	return out
}

// BlobRecord is the durable local store entry for one intent: the staged
// photos in order plus a creation timestamp. Created when the intent is
// queued, deleted when it completes, never mutated otherwise.
type BlobRecord struct {
	LocalID   string
	Photos    []StagedPhoto
	CreatedAt time.Time
}

// UploadIntent is one pending album-creation-with-photos operation, mirrored
// as a row in the remote queue table.
type UploadIntent struct {
	LocalID      string
	UserID       string
	ResourceType string
	Payload      AlbumPayload
	Files        []FileDescriptor
	Status       UploadStatus
	RetryCount   int
	ErrorMessage string

	// Populated only on completed: the durable linkage between the local
	// intent and the remote objects it created.
	RemoteAlbumID  string
	RemotePhotoIDs []string

	CreatedAt         time.Time
	UploadStartedAt   *time.Time
	UploadCompletedAt *time.Time
}
