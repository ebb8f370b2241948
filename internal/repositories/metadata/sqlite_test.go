package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);`)
	require.NoError(t, err)
	return db
}

func TestSetGetDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	v, err := r.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Nil(t, v, "missing key reads as nil, not an error")

	require.NoError(t, r.Set(ctx, "access_token", []byte("tok1")))
	v, err = r.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok1"), v)

	require.NoError(t, r.Set(ctx, "access_token", []byte("tok2")))
	v, err = r.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok2"), v, "set must overwrite")

	require.NoError(t, r.Delete(ctx, "access_token"))
	v, err = r.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "access_token"), "deleting a missing key is fine")
}
