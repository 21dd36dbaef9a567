package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/receipt"
	"github.com/phrazzld/karent-api/internal/service"
)

// RentalReturnHandler serves the /api/rentalreturn routes.
type RentalReturnHandler struct {
	returns service.RentalReturnService
	logger  *slog.Logger
	now     func() time.Time
}

// NewRentalReturnHandler creates a new RentalReturnHandler.
func NewRentalReturnHandler(returns service.RentalReturnService, logger *slog.Logger) *RentalReturnHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RentalReturnHandler")
	}
	return &RentalReturnHandler{
		returns: returns,
		logger:  logger.With(slog.String("component", "rental_return_handler")),
		now:     time.Now,
	}
}

// List handles GET /api/rentalreturn and GET /api/rentalreturn/filter/{filter}.
func (h *RentalReturnHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	if p.IsAdmin() {
		respondResult(w, r, h.returns.List(r.Context(), filterParam(r)))
		return
	}
	respondResult(w, r, h.returns.ListForUser(r.Context(), filterParam(r), p.UserID))
}

// Get handles GET /api/rentalreturn/{id}.
func (h *RentalReturnHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	respondResult(w, r, h.find(r, p, pathID(r, "id")))
}

// Receipt handles GET /api/rentalreturn/{id}/receipt and streams a PDF.
func (h *RentalReturnHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	res := h.find(r, p, pathID(r, "id"))
	if !res.Succeeded() {
		respondResult(w, r, res)
		return
	}

	var buf bytes.Buffer
	if err := receipt.Render(&buf, res.Data, h.now()); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate receipt", err)
		return
	}

	w.Header().Set("Content-Type", receipt.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", receipt.Filename(res.Data)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("failed to write receipt", slog.Int64("rental_return_id", res.Data.ID))
	}
}

// Quote handles GET /api/rentalreturn/quote?rental_id=&return_date=. The
// return date defaults to today.
func (h *RentalReturnHandler) Quote(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}

	rentalID, err := strconv.ParseInt(r.URL.Query().Get("rental_id"), 10, 64)
	if err != nil || rentalID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Rental ID")
		return
	}

	returnDate := h.now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("return_date"); raw != "" {
		returnDate, err = ParseDate(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid return_date: want YYYY-MM-DD")
			return
		}
	}

	if p.IsAdmin() {
		respondResult(w, r, h.returns.Quote(r.Context(), rentalID, returnDate))
		return
	}
	respondResult(w, r, h.returns.QuoteForUser(r.Context(), rentalID, p.UserID, returnDate))
}

// Create handles POST /api/rentalreturn.
func (h *RentalReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RentalReturnRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rr := req.toDomain()
	rr.ID = 0

	res := h.returns.Create(r.Context(), rr)
	if res.Succeeded() {
		logger.FromContextOrDefault(r.Context(), h.logger).Info("rental returned",
			slog.Int64("rental_return_id", res.Data.ID),
			slog.Int64("rental_id", res.Data.RentalID))
	}
	respondResult(w, r, res)
}

// Update handles PUT /api/rentalreturn.
func (h *RentalReturnHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req RentalReturnRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	respondResult(w, r, h.returns.Update(r.Context(), req.toDomain()))
}

// Delete handles DELETE /api/rentalreturn/{id}.
func (h *RentalReturnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	respondResult(w, r, h.returns.Delete(r.Context(), pathID(r, "id")))
}

func (h *RentalReturnHandler) find(r *http.Request, p shared.Principal, id int64) service.Result[*domain.RentalReturn] {
	if p.IsAdmin() {
		return h.returns.Get(r.Context(), id)
	}
	return h.returns.GetForUser(r.Context(), id, p.UserID)
}
