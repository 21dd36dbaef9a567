package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalRoutes_CustomerScope(t *testing.T) {
	a := newTestAPI(t)
	avanza := a.createCar(t, "Toyota", "Avanza", 2022)
	brio := a.createCar(t, "Honda", "Brio", 2021)
	sitiRental := a.createRental(t, a.sitiID, brio, "2025-02-01", "2025-02-03")

	t.Run("customer books for themselves whatever the body says", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/rental", a.budi(t), map[string]any{
			"user_id": a.sitiID, "car_id": avanza,
			"start_date": "2025-01-10", "end_date": "2025-01-12", "total_fee": 600,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var rental domain.Rental
		decodeData(t, rec, &rental)
		assert.Equal(t, a.budiID, rental.UserID)
		assert.Equal(t, "Budi", rental.UserName)
		assert.Equal(t, "Toyota", rental.CarBrand)
		assert.Equal(t, "Avanza", rental.CarModel)
		assert.Equal(t, domain.Money(60000), rental.TotalFee)
		require.NotNil(t, rental.CreatedBy)
		assert.Equal(t, a.budiID, *rental.CreatedBy)
	})

	t.Run("customer lists only their own rentals", func(t *testing.T) {
		var rentals []domain.Rental
		decodeData(t, a.do(t, http.MethodGet, "/api/rental", a.budi(t), nil), &rentals)
		require.Len(t, rentals, 1)
		assert.Equal(t, a.budiID, rentals[0].UserID)

		rec := a.do(t, http.MethodGet, "/api/rental/filter/brio", a.budi(t), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No Rental found", decodeEnvelope(t, rec).Message)
	})

	t.Run("admin lists everything", func(t *testing.T) {
		var rentals []domain.Rental
		decodeData(t, a.do(t, http.MethodGet, "/api/rental", a.admin(t), nil), &rentals)
		assert.Len(t, rentals, 2)

		decodeData(t, a.do(t, http.MethodGet, "/api/rental/filter/siti", a.admin(t), nil), &rentals)
		require.Len(t, rentals, 1)
		assert.Equal(t, sitiRental, rentals[0].ID)
	})

	t.Run("customer cannot read another customer's rental", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, fmt.Sprintf("/api/rental/%d", sitiRental), a.budi(t), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = a.do(t, http.MethodGet, fmt.Sprintf("/api/rental/%d", sitiRental), a.siti(t), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/rental", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRentalRoutes_Rules(t *testing.T) {
	a := newTestAPI(t)
	carID := a.createCar(t, "Toyota", "Avanza", 2022)
	rentalID := a.createRental(t, a.budiID, carID, "2025-01-10", "2025-01-12")

	tests := []struct {
		name        string
		body        map[string]any
		wantStatus  int
		wantMessage string
	}{
		{
			name: "overlapping booking",
			body: map[string]any{
				"user_id": a.sitiID, "car_id": carID,
				"start_date": "2025-01-12", "end_date": "2025-01-15", "total_fee": 100,
			},
			wantStatus:  http.StatusConflict,
			wantMessage: service.MsgCarUnavailable,
		},
		{
			name: "start after end",
			body: map[string]any{
				"user_id": a.sitiID, "car_id": carID,
				"start_date": "2025-03-05", "end_date": "2025-03-01", "total_fee": 100,
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Start date cannot be later than end date.",
		},
		{
			name: "unknown car",
			body: map[string]any{
				"user_id": a.sitiID, "car_id": 999,
				"start_date": "2025-03-01", "end_date": "2025-03-02", "total_fee": 100,
			},
			wantStatus:  http.StatusNotFound,
			wantMessage: "Car not found",
		},
		{
			name: "zero fee",
			body: map[string]any{
				"user_id": a.sitiID, "car_id": carID,
				"start_date": "2025-03-01", "end_date": "2025-03-02", "total_fee": 0,
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Total fee must be greater than zero.",
		},
		{
			name: "unparseable date",
			body: map[string]any{
				"user_id": a.sitiID, "car_id": carID,
				"start_date": "01/03/2025", "end_date": "2025-03-02", "total_fee": 100,
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/rental", a.admin(t), tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantMessage, decodeEnvelope(t, rec).Message)
		})
	}

	t.Run("update and delete are admin only", func(t *testing.T) {
		body := map[string]any{
			"id": rentalID, "user_id": a.budiID, "car_id": carID,
			"start_date": "2025-01-10", "end_date": "2025-01-14", "total_fee": 900,
		}
		rec := a.do(t, http.MethodPut, "/api/rental", a.budi(t), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = a.do(t, http.MethodPut, "/api/rental", a.admin(t), body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var rental domain.Rental
		decodeData(t, rec, &rental)
		assert.Equal(t, domain.Money(90000), rental.TotalFee)
		assert.Equal(t, "Budi", rental.UserName)

		rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/rental/%d", rentalID), a.budi(t), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = a.do(t, http.MethodDelete, fmt.Sprintf("/api/rental/%d", rentalID), a.admin(t), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, a.mem.RentalCount())
	})
}
