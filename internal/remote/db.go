// Package remote opens the connection to the hosted platform database and
// hands out the row repositories the sync engine writes through.
package remote

import (
	"context"
	"database/sql"

	"github.com/adventurelog/uploadsync/internal/remote/albums"
	"github.com/adventurelog/uploadsync/internal/remote/photos"
	"github.com/adventurelog/uploadsync/internal/remote/queue"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Repositories bundles the remote row repositories backed by one Postgres
// connection pool.
type Repositories struct {
	Queue  queue.Repository
	Albums albums.Repository
	Photos photos.Repository
	DB     *sql.DB
}

// OpenDatabase opens the platform database via the pgx stdlib driver.
// Connectivity is not verified here; the connectivity monitor probes it.
func OpenDatabase(dsn string) (*Repositories, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Queue:  queue.NewPostgresRepository(db),
		Albums: albums.NewPostgresRepository(db),
		Photos: photos.NewPostgresRepository(db),
		DB:     db,
	}, nil
}

// DBPinger adapts the pool's PingContext to the connectivity monitor's
// Pinger contract.
type DBPinger struct {
	DB *sql.DB
}

func (p DBPinger) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}
