// Package sync drives staged upload intents through their state machine:
// it replays locally queued album uploads against the remote platform and
// records the outcome per intent.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/adventurelog/uploadsync/internal/auth"
	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/filex"
	"github.com/adventurelog/uploadsync/internal/logging"
	"github.com/adventurelog/uploadsync/internal/metrics"
	"github.com/adventurelog/uploadsync/internal/models"
	"github.com/adventurelog/uploadsync/internal/remote/albums"
	"github.com/adventurelog/uploadsync/internal/remote/objectstore"
	"github.com/adventurelog/uploadsync/internal/remote/photos"
	"github.com/adventurelog/uploadsync/internal/remote/queue"
	"github.com/adventurelog/uploadsync/internal/repositories/blobs"
	"github.com/adventurelog/uploadsync/internal/shared"
	"github.com/google/uuid"
)

// Deps are the collaborators an Engine writes through. Online reports the
// connectivity monitor's current view; OnSnapshot, when set, receives the
// user's full queue after every drained pass. Metrics may be nil.
type Deps struct {
	Log        logging.Logger
	Session    auth.Session
	Blobs      blobs.Repository
	Queue      queue.Repository
	Albums     albums.Repository
	Photos     photos.Repository
	Objects    objectstore.Uploader
	Online     func() bool
	OnSnapshot func([]*models.UploadIntent)
	Metrics    *metrics.Metrics
}

// Engine owns the upload queue state machine. At most one sync pass runs at
// a time; a trigger while a pass is in flight is dropped, not queued.
type Engine struct {
	deps    Deps
	syncing atomic.Bool
}

func NewEngine(deps Deps) *Engine {
	return &Engine{deps: deps}
}

// QueueAlbumUpload stages a new album upload: photo bytes go to the durable
// local store, the intent is mirrored as a pending row in the remote queue
// table, and, if currently online, a sync pass is kicked off in the
// background. The local id is returned synchronously so the caller can
// reference the intent before any network activity resolves.
func (e *Engine) QueueAlbumUpload(ctx context.Context, payload models.AlbumPayload, photos []models.StagedPhoto) (string, error) {
	userID, err := e.deps.Session.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}

	localID := uuid.NewString()
	payload.PhotoCount = len(photos)

	if err := e.deps.Blobs.Put(ctx, localID, photos); err != nil {
		return "", fmt.Errorf("failed to stage photos: %w", err)
	}

	intent := &models.UploadIntent{
		LocalID:      localID,
		UserID:       userID,
		ResourceType: common.ResourceTypeAlbum,
		Payload:      payload,
		Files:        models.Descriptors(photos),
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.deps.Queue.Create(ctx, intent); err != nil {
		return "", fmt.Errorf("failed to create queue row: %w", err)
	}

	e.deps.Log.Info(ctx, "album upload queued", "local_id", localID, "photos", len(photos))

	if e.deps.Online() {
		go func() {
			if err := e.SyncPendingUploads(context.WithoutCancel(ctx)); err != nil {
				e.deps.Log.Error(context.Background(), "background sync pass failed", "error", err)
			}
		}()
	}

	return localID, nil
}

// SyncPendingUploads drains the current user's pending and uploading rows in
// listing order, sequentially. It is reentrant-safe: a call while a pass is
// already running returns immediately without starting a second pass.
// Individual item failures never abort the pass.
func (e *Engine) SyncPendingUploads(ctx context.Context) error {
	if !e.syncing.CompareAndSwap(false, true) {
		e.countPass("skipped")
		e.deps.Log.Debug(ctx, "sync pass already in flight, dropping trigger")
		return nil
	}
	defer e.syncing.Store(false)
	e.countPass("run")

	userID, err := e.deps.Session.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	items, err := e.deps.Queue.ListActive(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list active intents: %w", err)
	}

	for _, item := range items {
		e.processIntent(ctx, item)
	}

	e.refreshSnapshot(ctx, userID)
	return nil
}

// RetryUpload moves a failed intent back to pending (the UI retry button)
// and, when online, kicks off a sync pass.
func (e *Engine) RetryUpload(ctx context.Context, localID string) error {
	userID, err := e.deps.Session.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	if err := e.deps.Queue.ResetToPending(ctx, localID, userID); err != nil {
		return err
	}

	if e.deps.Online() {
		go func() {
			if err := e.SyncPendingUploads(context.WithoutCancel(ctx)); err != nil {
				e.deps.Log.Error(context.Background(), "background sync pass failed", "error", err)
			}
		}()
	}
	return nil
}

// Snapshot returns the user's full queue in creation order: the externally
// visible view the UI renders, including failed rows with their error
// message and retry count.
func (e *Engine) Snapshot(ctx context.Context) ([]*models.UploadIntent, error) {
	userID, err := e.deps.Session.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return e.deps.Queue.ListByUser(ctx, userID)
}

// processIntent runs one item to a terminal status. Every error is absorbed
// here: the item is marked failed and the pass moves on.
func (e *Engine) processIntent(ctx context.Context, intent *models.UploadIntent) {
	log := e.deps.Log.With("local_id", intent.LocalID)

	if err := e.deps.Queue.MarkUploading(ctx, intent.LocalID, time.Now().UTC()); err != nil {
		log.Error(ctx, "failed to mark intent uploading", "error", err)
		return
	}

	rec, err := e.deps.Blobs.Get(ctx, intent.LocalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// storage was cleared under us; the bytes are unrecoverable
			e.fail(ctx, log, intent, common.ErrBlobMissing)
		} else {
			e.fail(ctx, log, intent, err)
		}
		return
	}

	albumID, photoIDs, err := e.materialize(ctx, intent, rec)
	if err != nil {
		e.fail(ctx, log, intent, err)
		return
	}

	if err := e.deps.Queue.MarkCompleted(ctx, intent.LocalID, albumID, photoIDs, time.Now().UTC()); err != nil {
		e.fail(ctx, log, intent, err)
		return
	}

	// bytes are purged exactly once, with the transition into completed
	if err := e.deps.Blobs.Delete(ctx, intent.LocalID); err != nil {
		log.Warn(ctx, "failed to purge staged photos after completion", "error", err)
	}

	e.countIntent("completed")
	log.Info(ctx, "album upload completed", "album_id", albumID, "photos", len(photoIDs))
}

// materialize performs the remote writes for one intent: album row, then
// each photo's bytes and row in order_index order, then the derived-fields
// patch. A failure part-way leaves already-created remote objects in place;
// the intent is failed as a whole and a retry starts from scratch.
func (e *Engine) materialize(ctx context.Context, intent *models.UploadIntent, rec *models.BlobRecord) (string, []string, error) {
	albumID, err := e.deps.Albums.Create(ctx, intent.UserID, intent.Payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create album: %w", err)
	}

	var (
		photoIDs  []string
		coverPath string
	)
	for _, p := range rec.Photos {
		key, err := e.storageKey(albumID, p)
		if err != nil {
			return "", nil, err
		}
		if err := e.deps.Objects.Upload(ctx, key, p.Data, p.MimeType); err != nil {
			return "", nil, fmt.Errorf("failed to upload photo %d: %w", p.OrderIndex, err)
		}
		e.countBytes(len(p.Data))

		photoID, err := e.deps.Photos.Create(ctx, albumID, key, p.Caption, p.OrderIndex)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create photo row %d: %w", p.OrderIndex, err)
		}
		photoIDs = append(photoIDs, photoID)

		if coverPath == "" {
			coverPath = key
		}
	}

	if err := e.deps.Albums.UpdateDerived(ctx, albumID, coverPath, len(photoIDs)); err != nil {
		return "", nil, fmt.Errorf("failed to patch album: %w", err)
	}

	return albumID, photoIDs, nil
}

// storageKey builds a collision-resistant object key for one photo:
// timestamp plus random suffix plus extension, under the album's prefix.
func (e *Engine) storageKey(albumID string, p models.StagedPhoto) (string, error) {
	suffix, err := shared.MakeRandHexString(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate storage key: %w", err)
	}
	ext := filex.ExtensionForMime(p.MimeType, p.LocalPath)
	return fmt.Sprintf("albums/%s/%d_%s%s", albumID, time.Now().UnixNano(), suffix, ext), nil
}

func (e *Engine) fail(ctx context.Context, log logging.Logger, intent *models.UploadIntent, cause error) {
	if err := e.deps.Queue.MarkFailed(ctx, intent.LocalID, cause.Error()); err != nil {
		log.Error(ctx, "failed to mark intent failed", "error", err)
		return
	}
	e.countIntent("failed")
	log.Error(ctx, "album upload failed", "error", cause)
}

func (e *Engine) refreshSnapshot(ctx context.Context, userID string) {
	if e.deps.OnSnapshot == nil {
		return
	}
	items, err := e.deps.Queue.ListByUser(ctx, userID)
	if err != nil {
		e.deps.Log.Warn(ctx, "failed to refresh queue snapshot", "error", err)
		return
	}
	e.deps.OnSnapshot(items)
}

func (e *Engine) countPass(result string) {
	if e.deps.Metrics != nil {
		e.deps.Metrics.SyncPasses.WithLabelValues(result).Inc()
	}
}

func (e *Engine) countIntent(outcome string) {
	if e.deps.Metrics != nil {
		e.deps.Metrics.IntentsProcessed.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) countBytes(n int) {
	if e.deps.Metrics != nil {
		e.deps.Metrics.PhotoBytesUploaded.Add(float64(n))
	}
}
