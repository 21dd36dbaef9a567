package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/mocks"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	mem     *mocks.Memory
	hasher  *mocks.MockPasswordHasher
	cars    service.CarService
	users   service.UserService
	rentals service.RentalService
	returns service.RentalReturnService
}

func newFixture(t *testing.T, opts ...service.RentalOption) *fixture {
	t.Helper()

	mem := mocks.NewMemory()
	hasher := &mocks.MockPasswordHasher{}
	logger := discardLogger()

	cars, err := service.NewCarService(mem.TxRunner(), mem.CarStore(), mem.RentalStore(), logger)
	require.NoError(t, err)
	users, err := service.NewUserService(mem.TxRunner(), mem.UserStore(), mem.RentalStore(), hasher, logger)
	require.NoError(t, err)
	rentals, err := service.NewRentalService(mem.TxRunner(), mem.RentalStore(), mem.CarStore(),
		mem.UserStore(), mem.RentalReturnStore(), logger, opts...)
	require.NoError(t, err)
	returns, err := service.NewRentalReturnService(mem.TxRunner(), mem.RentalReturnStore(),
		mem.RentalStore(), mem.CarStore(), logger)
	require.NoError(t, err)

	return &fixture{mem: mem, hasher: hasher, cars: cars, users: users, rentals: rentals, returns: returns}
}

func (f *fixture) seedCustomer(name string) int64 {
	return f.mem.SeedUser(domain.User{
		Name:           name,
		Email:          name + "@example.com",
		HashedPassword: "hashed:s3cretpass",
		UserType:       domain.UserTypeCustomer,
	})
}

func (f *fixture) createCar(t *testing.T, brand, model string, year int) *domain.Car {
	t.Helper()
	res := f.cars.Create(context.Background(), &domain.Car{
		Brand:            brand,
		Model:            model,
		Year:             year,
		PlateNumber:      "B 1234 XYZ",
		RentalRatePerDay: 30000,
		LateRatePerDay:   5000,
	})
	require.Equal(t, service.StatusCreated, res.Status, res.Message)
	return res.Data
}

func (f *fixture) createRental(t *testing.T, userID, carID int64, start, end string) *domain.Rental {
	t.Helper()
	res := f.rentals.Create(context.Background(), &domain.Rental{
		UserID:    userID,
		CarID:     carID,
		StartDate: day(start),
		EndDate:   day(end),
		TotalFee:  50000,
	})
	require.Equal(t, service.StatusCreated, res.Status, res.Message)
	return res.Data
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
