package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/phrazzld/karent-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foreignKeyErr(entity, op string) error {
	return store.NewStoreError(entity, op, "database operation failed",
		fmt.Errorf("%w: foreign key violation (other_fkey)", store.ErrForeignKey))
}

func TestOutcome_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name       string
		failOp     string
		run        func(t *testing.T, f *fixture, userID int64, car *domain.Car, rental *domain.Rental) (service.Status, string)
		wantStatus service.Status
		wantMsg    string
	}{
		{
			name:   "rental insert references a missing row",
			failOp: "RentalStore.Insert",
			run: func(_ *testing.T, f *fixture, userID int64, car *domain.Car, _ *domain.Rental) (service.Status, string) {
				res := f.rentals.Create(context.Background(), &domain.Rental{
					UserID:    userID,
					CarID:     car.ID,
					StartDate: day("2024-03-01"),
					EndDate:   day("2024-03-03"),
					TotalFee:  50000,
				})
				return res.Status, res.Message
			},
			wantStatus: service.StatusNotFound,
			wantMsg:    service.MsgReferenceNotFound,
		},
		{
			name:   "rental update references a missing row",
			failOp: "RentalStore.Update",
			run: func(_ *testing.T, f *fixture, userID int64, car *domain.Car, rental *domain.Rental) (service.Status, string) {
				res := f.rentals.Update(context.Background(), &domain.Rental{
					ID:        rental.ID,
					UserID:    userID,
					CarID:     car.ID,
					StartDate: day("2024-02-01"),
					EndDate:   day("2024-02-04"),
					TotalFee:  60000,
				})
				return res.Status, res.Message
			},
			wantStatus: service.StatusNotFound,
			wantMsg:    service.MsgReferenceNotFound,
		},
		{
			name:   "car delete still referenced",
			failOp: "CarStore.Delete",
			run: func(t *testing.T, f *fixture, _ int64, _ *domain.Car, _ *domain.Rental) (service.Status, string) {
				free := f.createCar(t, "Honda", "Brio", 2021)
				res := f.cars.Delete(context.Background(), free.ID)
				return res.Status, res.Message
			},
			wantStatus: service.StatusConflict,
			wantMsg:    "Car is currently in use and cannot be deleted.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			userID := f.seedCustomer("budi")
			car := f.createCar(t, "Toyota", "Avanza", 2020)
			rental := f.createRental(t, userID, car.ID, "2024-02-01", "2024-02-03")

			f.mem.Fail(tt.failOp, foreignKeyErr("rental", "write"))
			status, msg := tt.run(t, f, userID, car, rental)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestOutcome_WrappedStoreErrors(t *testing.T) {
	f := newFixture(t)
	userID := f.seedCustomer("budi")
	car := f.createCar(t, "Toyota", "Avanza", 2020)
	rental := f.createRental(t, userID, car.ID, "2024-02-01", "2024-02-03")

	t.Run("generic not found uses the entity message", func(t *testing.T) {
		f.mem.Fail("RentalStore.Update", store.NewStoreError("rental", "update", "gone", store.ErrNotFound))
		defer f.mem.Fail("RentalStore.Update", nil)

		res := f.rentals.Update(context.Background(), &domain.Rental{
			ID:        rental.ID,
			UserID:    userID,
			CarID:     car.ID,
			StartDate: day("2024-02-01"),
			EndDate:   day("2024-02-04"),
			TotalFee:  60000,
		})
		assert.Equal(t, service.StatusNotFound, res.Status)
		assert.Equal(t, "Rental not found", res.Message)
	})

	t.Run("generic duplicate uses the entity message", func(t *testing.T) {
		f.mem.Fail("CarStore.Insert", store.NewStoreError("car", "insert", "unique constraint violated",
			fmt.Errorf("%w: cars_plate_key", store.ErrDuplicate)))
		defer f.mem.Fail("CarStore.Insert", nil)

		res := f.cars.Create(context.Background(), &domain.Car{Brand: "Honda", Model: "Jazz", Year: 2019})
		assert.Equal(t, service.StatusConflict, res.Status)
		assert.Equal(t, "Duplicate Car exists.", res.Message)
	})
}

func TestOutcome_LogsStoreContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	f := newFixture(t)
	cars, err := service.NewCarService(f.mem.TxRunner(), f.mem.CarStore(), f.mem.RentalStore(), logger)
	require.NoError(t, err)

	f.mem.Fail("CarStore.Insert", store.NewStoreError("car", "insert", "database operation failed",
		errors.New("connection reset by peer")))

	res := cars.Create(context.Background(), &domain.Car{Brand: "Toyota", Model: "Avanza", Year: 2020})
	assert.Equal(t, service.StatusInternalError, res.Status)
	assert.Contains(t, buf.String(), `"store_entity":"car"`)
	assert.Contains(t, buf.String(), `"store_operation":"insert"`)
	assert.Contains(t, buf.String(), `"operation":"create_car"`)
}
