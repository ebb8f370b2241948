package blobs

import (
	"context"
	"database/sql"
	"testing"

	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE blobs (
  local_id TEXT PRIMARY KEY,
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE blob_photos (
  local_id TEXT NOT NULL,
  order_index INTEGER NOT NULL,
  local_path TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  size INTEGER NOT NULL,
  caption TEXT NOT NULL DEFAULT '',
  data BLOB NOT NULL,
  PRIMARY KEY (local_id, order_index)
);
`)
	require.NoError(t, err)

	return db
}

func stagedPhoto(order int, caption string, data []byte) models.StagedPhoto {
	return models.StagedPhoto{
		FileDescriptor: models.FileDescriptor{
			LocalPath:  caption + ".jpg",
			MimeType:   "image/jpeg",
			Size:       int64(len(data)),
			Caption:    caption,
			OrderIndex: order,
		},
		Data: data,
	}
}

func TestPutGet_RoundTripPreservesOrder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	photos := []models.StagedPhoto{
		stagedPhoto(0, "sunrise", []byte{1, 2}),
		stagedPhoto(1, "market", []byte{3}),
		stagedPhoto(2, "harbor", []byte{4, 5, 6}),
	}
	require.NoError(t, r.Put(ctx, "id1", photos))

	rec, err := r.Get(ctx, "id1")
	require.NoError(t, err)
	require.Len(t, rec.Photos, 3)
	assert.False(t, rec.CreatedAt.IsZero())
	for i, p := range rec.Photos {
		assert.Equal(t, i, p.OrderIndex)
		assert.Equal(t, photos[i].Caption, p.Caption)
		assert.Equal(t, photos[i].Data, p.Data)
	}
}

func TestPut_OverwritesExistingEntry(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "id1", []models.StagedPhoto{
		stagedPhoto(0, "old-a", []byte{1}),
		stagedPhoto(1, "old-b", []byte{2}),
	}))
	require.NoError(t, r.Put(ctx, "id1", []models.StagedPhoto{
		stagedPhoto(0, "new", []byte{9}),
	}))

	rec, err := r.Get(ctx, "id1")
	require.NoError(t, err)
	require.Len(t, rec.Photos, 1)
	assert.Equal(t, "new", rec.Photos[0].Caption)
	assert.Equal(t, []byte{9}, rec.Photos[0].Data)
}

func TestGet_MissingKeyReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "id1", []models.StagedPhoto{stagedPhoto(0, "x", []byte{1})}))

	require.NoError(t, r.Delete(ctx, "id1"))
	_, err := r.Get(ctx, "id1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// deleting again, and deleting a never-existing key, must not error
	require.NoError(t, r.Delete(ctx, "id1"))
	require.NoError(t, r.Delete(ctx, "never-existed"))
}
