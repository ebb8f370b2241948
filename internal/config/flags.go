package config

import (
	"flag"
	"os"
	"time"

	"github.com/adventurelog/uploadsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   path of the local staging database
//	-d string   Postgres DSN of the remote platform database
//	-i int      online check interval in seconds
//	-m string   metrics listen address (empty disables)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-i", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDBPath, "b", cfg.LocalDBPath, "path of the local staging database")
	fs.StringVar(&cfg.RemoteDSN, "d", cfg.RemoteDSN, "Postgres DSN of the remote platform database")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
