package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"local_db_path": "queue.db",
		"remote_dsn": "postgres://host/app",
		"s3_bucket": "albums",
		"online_check_interval": "10s"
	}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cli", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "queue.db", c.LocalDBPath)
	assert.Equal(t, "postgres://host/app", c.RemoteDSN)
	assert.Equal(t, "albums", c.S3Bucket)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "us-east-1", c.S3Region, "fields absent from JSON keep defaults")
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cli"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "adventurelog.db", c.LocalDBPath)
}
