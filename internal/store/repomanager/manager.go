// Package repomanager wires repositories to a database handle, so services
// can bind the same repository code to *sql.DB or to an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/resiembra/resiembra/internal/dbx"
	"github.com/resiembra/resiembra/internal/store/campaigns"
	"github.com/resiembra/resiembra/internal/store/claims"
	"github.com/resiembra/resiembra/internal/store/records"
	"github.com/resiembra/resiembra/internal/store/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	Claims(db dbx.DBTX) claims.Repository
	Campaigns(db dbx.DBTX) campaigns.Repository
	Users(db dbx.DBTX) users.Repository
}
