package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/adventurelog/uploadsync/internal/flagx"
	"github.com/adventurelog/uploadsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	LocalDBPath         string         `json:"local_db_path"`
	RemoteDSN           string         `json:"remote_dsn"`
	S3Endpoint          string         `json:"s3_endpoint"`
	S3Region            string         `json:"s3_region"`
	S3Bucket            string         `json:"s3_bucket"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	MetricsAddr         string         `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; if absent, nothing is loaded.
// Credentials are deliberately not accepted from JSON; they come from the
// environment.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.RemoteDSN != "" {
		cfg.RemoteDSN = jc.RemoteDSN
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.MetricsAddr != "" {
		cfg.MetricsAddr = jc.MetricsAddr
	}
}
