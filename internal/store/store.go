// Package store opens the remote document store connection.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open returns a database handle for the remote store. The connection is not
// pinged here: a client may well start while offline, and the connectivity
// monitor owns reachability tracking.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(time.Minute)
	return db, nil
}

// Probe checks remote-store reachability with a short deadline. It is the
// probe function the connectivity monitor runs on every tick.
func Probe(db *sql.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
