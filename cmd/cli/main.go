package main

import (
	"context"
	"os"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/buildinfo"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/cli"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/config"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, logging.Options{Backend: cfg.LogBackend, Level: cfg.LogLevel})

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

	if z, ok := log.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}
