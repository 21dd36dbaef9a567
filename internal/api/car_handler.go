package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/service"
)

// CarHandler serves the /api/car routes.
type CarHandler struct {
	cars   service.CarService
	logger *slog.Logger
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(cars service.CarService, logger *slog.Logger) *CarHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CarHandler")
	}
	return &CarHandler{
		cars:   cars,
		logger: logger.With(slog.String("component", "car_handler")),
	}
}

// List handles GET /api/car and GET /api/car/filter/{filter}.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.cars.List(r.Context(), filterParam(r))
	if !res.Succeeded() {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Debug("car listing returned no data", slog.String("message", res.Message))
	}
	respondResult(w, r, res)
}

// Get handles GET /api/car/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.cars.Get(r.Context(), pathID(r, "id")))
}

// Create handles POST /api/car.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res := h.cars.Create(r.Context(), req.toDomain())
	if res.Succeeded() {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Info("car created", slog.Int64("car_id", res.Data.ID))
	}
	respondResult(w, r, res)
}

// Update handles PUT /api/car.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	respondResult(w, r, h.cars.Update(r.Context(), req.toDomain()))
}

// Delete handles DELETE /api/car/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	res := h.cars.Delete(r.Context(), id)
	if res.Succeeded() {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Info("car deleted", slog.Int64("car_id", id))
	}
	respondResult(w, r, res)
}
