package api_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/receipt"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalReturnRoutes(t *testing.T) {
	a := newTestAPI(t)
	carID := a.createCar(t, "Toyota", "Avanza", 2022)
	rentalID := a.createRental(t, a.budiID, carID, "2025-01-10", "2025-01-12")

	t.Run("quote prices a late return", func(t *testing.T) {
		path := fmt.Sprintf("/api/rentalreturn/quote?rental_id=%d&return_date=2025-01-15", rentalID)
		rec := a.do(t, http.MethodGet, path, a.budi(t), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var quote domain.FeeQuote
		decodeData(t, rec, &quote)
		assert.Equal(t, int64(3), quote.LateDays)
		assert.Equal(t, domain.Money(15000), quote.LateFee)
		assert.Equal(t, domain.Money(65000), quote.TotalFee)
		assert.Equal(t, service.MsgQuoteCalculated, decodeEnvelope(t, rec).Message)
	})

	t.Run("quote is scoped to the rental owner", func(t *testing.T) {
		path := fmt.Sprintf("/api/rentalreturn/quote?rental_id=%d&return_date=2025-01-15", rentalID)
		rec := a.do(t, http.MethodGet, path, a.siti(t), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("quote rejects bad parameters", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/rentalreturn/quote", a.admin(t), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Rental ID", decodeEnvelope(t, rec).Message)

		path := fmt.Sprintf("/api/rentalreturn/quote?rental_id=%d&return_date=tomorrow", rentalID)
		rec = a.do(t, http.MethodGet, path, a.admin(t), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("customers cannot record returns", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/rentalreturn", a.budi(t), map[string]any{
			"rental_id": rentalID, "return_date": "2025-01-15",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	var returnID int64
	t.Run("admin records an unpriced return", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/rentalreturn", a.admin(t), map[string]any{
			"rental_id": rentalID, "return_date": "2025-01-15",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var rr domain.RentalReturn
		decodeData(t, rec, &rr)
		returnID = rr.ID
		assert.Equal(t, domain.Money(15000), rr.LateFee)
		assert.Equal(t, domain.Money(65000), rr.TotalFee)
		assert.Equal(t, "Budi", rr.UserName)
	})

	t.Run("second return conflicts", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/rentalreturn", a.admin(t), map[string]any{
			"rental_id": rentalID, "return_date": "2025-01-16", "late_fee": 0, "total_fee": 500,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, service.MsgRentalAlreadyReturned, decodeEnvelope(t, rec).Message)
	})

	t.Run("owner sees the return", func(t *testing.T) {
		var returns []domain.RentalReturn
		decodeData(t, a.do(t, http.MethodGet, "/api/rentalreturn", a.budi(t), nil), &returns)
		require.Len(t, returns, 1)
		assert.Equal(t, returnID, returns[0].ID)

		rec := a.do(t, http.MethodGet, "/api/rentalreturn", a.siti(t), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/rentalreturn/%d", returnID), a.siti(t), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("receipt", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, fmt.Sprintf("/api/rentalreturn/%d/receipt", returnID), a.budi(t), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, receipt.ContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"),
			fmt.Sprintf("karent-receipt-%d.pdf", returnID))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

		rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/rentalreturn/%d/receipt", returnID), a.siti(t), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("rental with a return cannot be deleted", func(t *testing.T) {
		rec := a.do(t, http.MethodDelete, fmt.Sprintf("/api/rental/%d", rentalID), a.admin(t), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("update keeps supplied fees", func(t *testing.T) {
		rec := a.do(t, http.MethodPut, "/api/rentalreturn", a.admin(t), map[string]any{
			"id": returnID, "rental_id": rentalID, "return_date": "2025-01-15",
			"late_fee": 100, "total_fee": 600,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var rr domain.RentalReturn
		decodeData(t, rec, &rr)
		assert.Equal(t, domain.Money(10000), rr.LateFee)
		assert.Equal(t, domain.Money(60000), rr.TotalFee)
	})

	t.Run("delete reopens the rental", func(t *testing.T) {
		rec := a.do(t, http.MethodDelete, fmt.Sprintf("/api/rentalreturn/%d", returnID), a.admin(t), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/rental/%d", rentalID), a.admin(t), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
