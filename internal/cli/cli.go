// Package cli provides the command-line interface for searchsync.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/searchsync/searchsync/internal/config"
	"github.com/searchsync/searchsync/internal/engine"
	"github.com/searchsync/searchsync/internal/logging"
	"github.com/searchsync/searchsync/internal/store"
	"github.com/searchsync/searchsync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "searchsync",
		Usage:   "Manage and synchronize search-engine launcher configuration",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to config file (default: user config dir)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Store driver override (sqlite, memory)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path override",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Commands: []*cli.Command{
			versionCommand(),
			exportCommand(),
			importCommand(),
			validateCommand(),
			enginesCommand(),
			prefsCommand(),
			historyCommand(),
			statsCommand(),
			configCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	} else {
		opts.Level = slog.LevelWarn
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}

// loadConfig loads the tool configuration, honoring the --config override.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// openStore opens the configured store backend. The returned close func is
// a no-op for the memory driver.
func openStore(cmd *cli.Command, cfg *config.Config) (store.Store, func() error, error) {
	driver := cfg.Store.Driver
	if v := cmd.String("store"); v != "" {
		driver = v
	}
	path := cfg.Store.Path
	if v := cmd.String("db"); v != "" {
		path = v
	}

	switch driver {
	case "memory":
		return store.NewMemory(), func() error { return nil }, nil
	case "sqlite", "":
		st, err := store.OpenSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		logging.Debug("store opened", logging.Path(path))
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q (valid: sqlite, memory)", driver)
	}
}

// loadManager opens the store and builds an engine manager with a fresh
// cache. Most commands start here.
func loadManager(ctx context.Context, cmd *cli.Command) (*config.Config, store.Store, *engine.Manager, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	st, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	mgr := engine.NewManager(st)
	if err := mgr.LoadEngines(ctx); err != nil {
		_ = closeStore()
		return nil, nil, nil, nil, err
	}

	return cfg, st, mgr, closeStore, nil
}
