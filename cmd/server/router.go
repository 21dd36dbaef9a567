package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/karent-api/internal/api"
	apiMiddleware "github.com/phrazzld/karent-api/internal/api/middleware"
)

const requestTimeout = 30 * time.Second

// setupRouter creates the application router with its middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.sessions, app.logger)

	r.Method(http.MethodGet, "/health", api.NewHealthHandler(app.db, app.logger))
	api.Mount(r, app.handlers, authMiddleware)

	return r
}
