package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/resiembra/resiembra/internal/buildinfo"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/sower/cli"
	"github.com/resiembra/resiembra/internal/sower/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
