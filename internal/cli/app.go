// Package cli is the interactive Adventure Log sync client: a REPL over the
// upload queue, wired to the local staging database, the hosted platform
// database and object storage.
package cli

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/adventurelog/uploadsync/internal/auth"
	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/config"
	"github.com/adventurelog/uploadsync/internal/connectivity"
	"github.com/adventurelog/uploadsync/internal/localdb"
	"github.com/adventurelog/uploadsync/internal/logging"
	"github.com/adventurelog/uploadsync/internal/metrics"
	"github.com/adventurelog/uploadsync/internal/remote"
	"github.com/adventurelog/uploadsync/internal/remote/objectstore"
	syncer "github.com/adventurelog/uploadsync/internal/sync"
)

// App wires the sync engine, session and connectivity monitor behind the
// REPL. userID caches the logged-in user for the prompt only; the engine
// resolves the user from the stored token on every operation.
type App struct {
	config  *config.Config
	log     logging.Logger
	local   *localdb.Repositories
	remote  *remote.Repositories
	session *auth.TokenSession
	engine  *syncer.Engine
	monitor *connectivity.Monitor
	metrics *metrics.Metrics
	reader  *bufio.Reader
	userID  string
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	local, err := localdb.InitDatabase(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}

	rem, err := remote.OpenDatabase(cfg.RemoteDSN)
	if err != nil {
		return nil, err
	}

	objects, err := objectstore.NewS3Client(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:  cfg,
		log:     log,
		local:   local,
		remote:  rem,
		session: auth.NewTokenSession(local.Metadata, []byte(cfg.JWTSecret)),
		metrics: metrics.New(),
		reader:  bufio.NewReader(os.Stdin),
	}

	app.monitor = connectivity.NewMonitor(remote.DBPinger{DB: rem.DB}, cfg.OnlineCheckInterval, log, func() {
		if err := app.engine.SyncPendingUploads(context.Background()); err != nil {
			log.Error(context.Background(), "sync pass on reconnect failed", "error", err)
		}
	})

	app.engine = syncer.NewEngine(syncer.Deps{
		Log:     log,
		Session: app.session,
		Blobs:   local.Blobs,
		Queue:   rem.Queue,
		Albums:  rem.Albums,
		Photos:  rem.Photos,
		Objects: objects,
		Online:  app.monitor.Online,
		Metrics: app.metrics,
	})

	// restore a persisted login so the prompt is right after a restart
	if userID, err := app.session.CurrentUserID(ctx); err == nil {
		app.userID = userID
	} else if !errors.Is(err, common.ErrorUnauthorized) {
		log.Warn(ctx, "stored token is not usable", "error", err)
	}

	return app, nil
}

// Run starts the connectivity watcher, the optional metrics endpoint and the
// REPL, and blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	go a.monitor.Start(ctx)

	if a.config.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(a.config.MetricsAddr, a.metrics.Handler()); err != nil {
				a.log.Error(ctx, "metrics endpoint failed", "error", err)
			}
		}()
	}

	runREPL(ctx, a, a.promptStatus, bufio.NewScanner(os.Stdin))
}

// Close releases both database handles.
func (a *App) Close() {
	if err := a.local.DB.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close local database", "error", err)
	}
	if err := a.remote.DB.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close remote database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}

func (a *App) promptStatus() string {
	who := "anonymous"
	if a.isLoggedIn() {
		who = a.userID
	}
	mode := "offline"
	if a.monitor.Online() {
		mode = "online"
	}
	return who + " " + mode
}
