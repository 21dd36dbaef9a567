package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/karent-api/internal/api/middleware"
	"github.com/phrazzld/karent-api/internal/domain"
)

// Handlers bundles every resource handler mounted under /api.
type Handlers struct {
	Auth          *AuthHandler
	Cars          *CarHandler
	Users         *UserHandler
	Rentals       *RentalHandler
	RentalReturns *RentalReturnHandler
}

// Mount registers the /api routes on r.
func Mount(r chi.Router, h Handlers, authMW *middleware.AuthMiddleware) {
	adminOnly := middleware.RequireRole(domain.UserTypeAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.With(authMW.Optional).Post("/", h.Users.Register)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate)
				r.Post("/logout", h.Auth.Logout)
				r.Put("/", h.Users.Update)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", h.Users.List)
					r.Get("/filter/{filter}", h.Users.List)
					r.Get("/{id}", h.Users.Get)
					r.Delete("/{id}", h.Users.Delete)
				})
			})
		})

		r.Route("/car", func(r chi.Router) {
			r.Get("/", h.Cars.List)
			r.Get("/filter/{filter}", h.Cars.List)
			r.Get("/{id}", h.Cars.Get)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate, adminOnly)
				r.Post("/", h.Cars.Create)
				r.Put("/", h.Cars.Update)
				r.Delete("/{id}", h.Cars.Delete)
			})
		})

		r.Route("/rental", func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/", h.Rentals.List)
			r.Get("/filter/{filter}", h.Rentals.List)
			r.Get("/{id}", h.Rentals.Get)
			r.Post("/", h.Rentals.Create)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Put("/", h.Rentals.Update)
				r.Delete("/{id}", h.Rentals.Delete)
			})
		})

		r.Route("/rentalreturn", func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/", h.RentalReturns.List)
			r.Get("/quote", h.RentalReturns.Quote)
			r.Get("/filter/{filter}", h.RentalReturns.List)
			r.Get("/{id}", h.RentalReturns.Get)
			r.Get("/{id}/receipt", h.RentalReturns.Receipt)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", h.RentalReturns.Create)
				r.Put("/", h.RentalReturns.Update)
				r.Delete("/{id}", h.RentalReturns.Delete)
			})
		})
	})
}
