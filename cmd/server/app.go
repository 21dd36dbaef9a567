package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/karent-api/internal/api"
	"github.com/phrazzld/karent-api/internal/config"
	"github.com/phrazzld/karent-api/internal/platform/postgres"
	redisstore "github.com/phrazzld/karent-api/internal/platform/redis"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/phrazzld/karent-api/internal/service/auth"
	"github.com/phrazzld/karent-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	db         *sql.DB
	jwtService auth.JWTService
	sessions   auth.SessionStore
	handlers   api.Handlers

	// closers run in reverse order during cleanup
	closers []func() error
}

// newApplication wires stores, services and handlers on top of db.
// It takes ownership of db, closing it in cleanup or when wiring fails.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (_ *application, err error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		closers: []func() error{db.Close},
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	if cfg.Redis.URL != "" {
		sessions, err := redisstore.NewSessionStore(ctx, cfg.Redis.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect session store: %w", err)
		}
		app.sessions = sessions
		app.closers = append(app.closers, sessions.Close)
	} else {
		logger.Warn("redis url not configured, session tracking disabled")
	}

	txRunner := store.NewTxRunner(db)
	cars := postgres.NewPostgresCarStore(db, logger)
	users := postgres.NewPostgresUserStore(db, logger)
	rentals := postgres.NewPostgresRentalStore(db, logger)
	returns := postgres.NewPostgresRentalReturnStore(db, logger)

	carService, err := service.NewCarService(txRunner, cars, rentals, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create car service: %w", err)
	}
	userService, err := service.NewUserService(txRunner, users, rentals, auth.NewPBKDF2Hasher(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	rentalService, err := service.NewRentalService(txRunner, rentals, cars, users, returns, logger,
		service.WithAvailabilityCheck(cfg.Rental.EnforceAvailability))
	if err != nil {
		return nil, fmt.Errorf("failed to create rental service: %w", err)
	}
	returnService, err := service.NewRentalReturnService(txRunner, returns, rentals, cars, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create rental return service: %w", err)
	}

	app.handlers = api.Handlers{
		Auth:          api.NewAuthHandler(userService, jwtService, app.sessions, logger),
		Cars:          api.NewCarHandler(carService, logger),
		Users:         api.NewUserHandler(userService, logger),
		Rentals:       api.NewRentalHandler(rentalService, logger),
		RentalReturns: api.NewRentalReturnHandler(returnService, logger),
	}
	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error("failed to release resource", slog.String("error", err.Error()))
		}
	}
	app.closers = nil
	app.logger.Info("application resources released")
}
