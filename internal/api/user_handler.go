package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/service"
)

// UserHandler serves the /api/user resource routes.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /api/user and GET /api/user/filter/{filter}.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.users.List(r.Context(), filterParam(r)))
}

// Get handles GET /api/user/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.users.Get(r.Context(), pathID(r, "id")))
}

// Register handles POST /api/user. Anonymous callers and customers can only
// create customer accounts; admins may create any user type.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user := req.toDomain()
	user.ID = 0
	if p, ok := shared.GetPrincipal(r.Context()); !ok || !p.IsAdmin() {
		user.UserType = domain.UserTypeCustomer
	}

	res := h.users.Create(r.Context(), user)
	if res.Succeeded() {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Info("user registered", slog.Int64("new_user_id", res.Data.ID))
	}
	respondResult(w, r, res)
}

// Update handles PUT /api/user. Customers may only update their own profile
// and cannot change their user type.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	var req UserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user := req.toDomain()
	if !p.IsAdmin() {
		if user.ID != p.UserID {
			logger.FromContextOrDefault(r.Context(), h.logger).
				Warn("customer attempted to update another user", slog.Int64("target_user_id", user.ID))
			shared.RespondWithError(w, r, http.StatusForbidden, "You can only update your own profile.")
			return
		}
		user.UserType = domain.UserTypeCustomer
	}
	respondResult(w, r, h.users.Update(r.Context(), user))
}

// Delete handles DELETE /api/user/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.users.Delete(r.Context(), pathID(r, "id")))
}
