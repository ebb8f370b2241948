package config

import "time"

// Config holds runtime settings for the Adventure Log sync client.
//
// Fields:
//   - LocalDBPath: path of the SQLite database holding staged photo bytes.
//   - RemoteDSN: Postgres DSN of the hosted platform database.
//   - S3*: object-storage endpoint, region, bucket and static credentials.
//   - JWTSecret: HS256 secret used to verify the platform access token.
//   - OnlineCheckInterval: how often the client probes remote reachability.
//   - MetricsAddr: optional listen address for the Prometheus endpoint
//     (empty disables it).
type Config struct {
	LocalDBPath         string
	RemoteDSN           string
	S3Endpoint          string
	S3Region            string
	S3Bucket            string
	S3AccessKey         string
	S3SecretKey         string
	JWTSecret           string
	OnlineCheckInterval time.Duration
	MetricsAddr         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LocalDBPath = "adventurelog.db"
	c.S3Region = "us-east-1"
	c.S3Bucket = "adventure-photos"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
