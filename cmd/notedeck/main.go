package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/antonkarev/notedeck/internal/cli"
	"github.com/antonkarev/notedeck/internal/config"
	"github.com/antonkarev/notedeck/internal/db"
	"github.com/antonkarev/notedeck/internal/remote"
	"github.com/antonkarev/notedeck/internal/service"
	"github.com/antonkarev/notedeck/internal/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	lvl := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	// Use-case telemetry only when verbose logging is requested.
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if lvl <= slog.LevelInfo {
		observer = service.NewLogUseCaseObserver(logger)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	store := state.NewStore()

	// Remote sync is optional; without an endpoint everything stays local.
	var client *remote.Client
	if cfg.RemoteEndpoint != "" {
		if cfg.AnonID == "" {
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			id, err := config.EnsureAnonID(path)
			if err != nil {
				return fmt.Errorf("issuing anonymous id: %w", err)
			}
			cfg.AnonID = id
		}
		client = remote.NewClient(cfg.RemoteEndpoint, cfg.AnonID)
	}

	tracker := service.NewTrackerService(store, uow, client, nil, logger, observer)
	saver := remote.NewSaver(tracker.Persist, cfg.SaveDebounce, logger)
	tracker.AttachSaver(saver)
	defer tracker.Close()

	app := &cli.App{
		Tracker: tracker,
		Sync:    service.NewSyncService(store, uow, client, observer),
		Logger:  logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}
