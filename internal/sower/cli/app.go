// Package cli is the interactive sower console: logging planting events,
// listing records, claiming orphans and watching the pending-sync indicator.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/resiembra/resiembra/internal/blob"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/notify"
	claimsvc "github.com/resiembra/resiembra/internal/services"
	"github.com/resiembra/resiembra/internal/sower/config"
	"github.com/resiembra/resiembra/internal/sower/connectivity"
	"github.com/resiembra/resiembra/internal/sower/localdb"
	"github.com/resiembra/resiembra/internal/sower/queue"
	"github.com/resiembra/resiembra/internal/sower/services"
	"github.com/resiembra/resiembra/internal/sower/syncer"
	"github.com/resiembra/resiembra/internal/store"
	"github.com/resiembra/resiembra/internal/store/repomanager"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	remoteDB *sql.DB
	localDB  *sql.DB
	sowing   *services.SowingService
	claims   *claimsvc.ClaimService
	engine   *syncer.Engine
	monitor  *connectivity.Monitor
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	remoteDB, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	localDB, err := localdb.Init(ctx, cfg.LocalDSN)
	if err != nil {
		_ = remoteDB.Close()
		return nil, err
	}

	blobs, err := blob.New(ctx, cfg.Blob())
	if err != nil {
		_ = localDB.Close()
		_ = remoteDB.Close()
		return nil, err
	}

	repos := repomanager.NewPostgresRepositoryManager()
	records := repos.Records(remoteDB)
	q := queue.NewSQLiteRepository(localDB)

	return &App{
		config:   cfg,
		logger:   logger,
		remoteDB: remoteDB,
		localDB:  localDB,
		sowing:   services.NewSowingService(records, blobs, q, logger, cfg.UserID),
		claims:   claimsvc.NewClaimService(remoteDB, repos, notify.NewLogNotifier(logger), logger),
		engine:   syncer.New(q, blobs, records, logger),
		monitor:  connectivity.NewMonitor(store.Probe(remoteDB), cfg.OnlineCheckInterval, logger),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the connectivity watcher and the reconnect-triggered sync loop,
// then hands control to the interactive prompt until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.monitor.Run(ctx)
	go a.engine.Run(ctx, a.monitor.Subscribe())

	a.Root(ctx)

	_ = a.localDB.Close()
	_ = a.remoteDB.Close()
}
