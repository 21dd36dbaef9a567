package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/service"
)

// RentalHandler serves the /api/rental routes. Customers only ever see and
// book their own rentals.
type RentalHandler struct {
	rentals service.RentalService
	logger  *slog.Logger
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(rentals service.RentalService, logger *slog.Logger) *RentalHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RentalHandler")
	}
	return &RentalHandler{
		rentals: rentals,
		logger:  logger.With(slog.String("component", "rental_handler")),
	}
}

// List handles GET /api/rental and GET /api/rental/filter/{filter}.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	if p.IsAdmin() {
		respondResult(w, r, h.rentals.List(r.Context(), filterParam(r)))
		return
	}
	respondResult(w, r, h.rentals.ListForUser(r.Context(), filterParam(r), p.UserID))
}

// Get handles GET /api/rental/{id}.
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	id := pathID(r, "id")
	if p.IsAdmin() {
		respondResult(w, r, h.rentals.Get(r.Context(), id))
		return
	}
	respondResult(w, r, h.rentals.GetForUser(r.Context(), id, p.UserID))
}

// Create handles POST /api/rental. A customer's rental is always booked for
// the customer, whatever user_id the body names.
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	var req RentalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rental := req.toDomain()
	rental.ID = 0
	if !p.IsAdmin() {
		rental.UserID = p.UserID
	}

	res := h.rentals.Create(r.Context(), rental)
	if res.Succeeded() {
		logger.FromContextOrDefault(r.Context(), h.logger).Info("rental created",
			slog.Int64("rental_id", res.Data.ID),
			slog.Int64("car_id", res.Data.CarID))
	}
	respondResult(w, r, res)
}

// Update handles PUT /api/rental.
func (h *RentalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req RentalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	respondResult(w, r, h.rentals.Update(r.Context(), req.toDomain()))
}

// Delete handles DELETE /api/rental/{id}.
func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.rentals.Delete(r.Context(), pathID(r, "id")))
}
