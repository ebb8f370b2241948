package config

import "os"

// parseEnv overlays Config with values from environment variables. Only
// variables that are set (even if empty via .env) override earlier sources.
// Secrets (DSN, S3 credentials, JWT secret) are expected to arrive this way
// rather than via flags.
func parseEnv(cfg *Config) {
	set := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	set("SYNC_LOCAL_DB", &cfg.LocalDBPath)
	set("SYNC_REMOTE_DSN", &cfg.RemoteDSN)
	set("SYNC_S3_ENDPOINT", &cfg.S3Endpoint)
	set("SYNC_S3_REGION", &cfg.S3Region)
	set("SYNC_S3_BUCKET", &cfg.S3Bucket)
	set("SYNC_S3_ACCESS_KEY", &cfg.S3AccessKey)
	set("SYNC_S3_SECRET_KEY", &cfg.S3SecretKey)
	set("SYNC_JWT_SECRET", &cfg.JWTSecret)
	set("SYNC_METRICS_ADDR", &cfg.MetricsAddr)
}
