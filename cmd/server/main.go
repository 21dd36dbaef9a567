// Package main implements the entry point for the Karent API server, the
// backend of a car rental shop: cars, customers, rentals and returns.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/karent-api/internal/config"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/platform/postgres"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "karent-server: %v\n", err)
		os.Exit(1)
	}
}

// options holds the command line flags.
type options struct {
	migrate string
}

var migrateCommands = map[string]bool{
	postgres.MigrateUp:      true,
	postgres.MigrateDown:    true,
	postgres.MigrateStatus:  true,
	postgres.MigrateReset:   true,
	postgres.MigrateVersion: true,
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("karent-server", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, status, reset, version) and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.migrate != "" && !migrateCommands[opts.migrate] {
		return options{}, fmt.Errorf("unknown migrate command %q", opts.migrate)
	}
	return opts, nil
}

func run(args []string, output io.Writer) error {
	opts, err := parseFlags(args, output)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer func() { _ = db.Close() }()
		log.Info("running migrations", slog.String("command", opts.migrate))
		return postgres.Migrate(ctx, db, opts.migrate, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
