// mediamigrate converts legacy inline photo payloads to blob references
// (migrate pass) and clears the redundant inline copies afterwards (cleanup
// pass). Both passes are idempotent and dry-run-capable.
//
// Usage:
//
//	mediamigrate -pass migrate [-n] [-d DSN] [-k backend ...]
//	mediamigrate -pass cleanup [-n] [-d DSN] [-k backend ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/resiembra/resiembra/internal/blob"
	"github.com/resiembra/resiembra/internal/buildinfo"
	"github.com/resiembra/resiembra/internal/coordinator/config"
	"github.com/resiembra/resiembra/internal/flagx"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/mediamigrate"
	"github.com/resiembra/resiembra/internal/store"
	"github.com/resiembra/resiembra/internal/store/repomanager"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	args := flagx.FilterArgs(os.Args[1:], []string{"-pass", "-n"})
	fs := flag.NewFlagSet("mediamigrate", flag.ExitOnError)
	pass := fs.String("pass", "migrate", "pass to run: migrate or cleanup")
	dryRun := fs.Bool("n", false, "dry run: report what would change, touch nothing")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	blobs, err := blob.New(ctx, cfg.Blob())
	if err != nil {
		log.Fatalf("%v", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	migrator := mediamigrate.NewMigrator(repos.Records(db), blobs, logger)

	progress := func(current, total int) {
		fmt.Printf("\r%d/%d", current, total)
		if current == total {
			fmt.Println()
		}
	}

	var summary *mediamigrate.Summary
	switch *pass {
	case "migrate":
		summary, err = migrator.Migrate(ctx, *dryRun, progress)
	case "cleanup":
		summary, err = migrator.Cleanup(ctx, *dryRun, progress)
	default:
		log.Fatalf("unknown pass %q (want migrate or cleanup)", *pass)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(summary.String())
	if summary.Errors > 0 {
		os.Exit(1)
	}
}
