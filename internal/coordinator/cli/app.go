// Package cli is the coordinator console: reviewing claim requests, watching
// the pending queue and running the approved-claims maintenance sweep.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/resiembra/resiembra/internal/coordinator/config"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/notify"
	"github.com/resiembra/resiembra/internal/services"
	"github.com/resiembra/resiembra/internal/store"
	"github.com/resiembra/resiembra/internal/store/repomanager"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	claims *services.ClaimService
	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		claims: services.NewClaimService(db, repos, notify.NewLogNotifier(logger), logger),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
	_ = a.db.Close()
}
