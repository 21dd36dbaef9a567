package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/store"
)

// CarService manages the rental fleet.
type CarService interface {
	// List returns cars whose brand or model contains filter, ignoring case.
	// An empty list yields StatusNoContent.
	List(ctx context.Context, filter string) Result[[]domain.Car]

	// Get returns one car.
	Get(ctx context.Context, id int64) Result[*domain.Car]

	// Create validates and stores a new car, rejecting a brand, model and
	// year combination that already exists.
	Create(ctx context.Context, car *domain.Car) Result[*domain.Car]

	// Update overwrites every mutable field of an existing car.
	Update(ctx context.Context, car *domain.Car) Result[*domain.Car]

	// Delete removes a car that no rental references.
	Delete(ctx context.Context, id int64) Result[int64]
}

type carServiceImpl struct {
	txRunner store.TxRunner
	cars     store.CarStore
	rentals  store.RentalStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewCarService creates a new CarService.
// It returns an error if any of the required dependencies are nil.
func NewCarService(
	txRunner store.TxRunner,
	cars store.CarStore,
	rentals store.RentalStore,
	logger *slog.Logger,
) (CarService, error) {
	if txRunner == nil {
		return nil, missingDependency("car", "txRunner")
	}
	if cars == nil {
		return nil, missingDependency("car", "carStore")
	}
	if rentals == nil {
		return nil, missingDependency("car", "rentalStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &carServiceImpl{
		txRunner: txRunner,
		cars:     cars,
		rentals:  rentals,
		logger:   logger.With(slog.String("component", "car_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// List implements CarService.List
func (s *carServiceImpl) List(ctx context.Context, filter string) Result[[]domain.Car] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cars, err := s.cars.FindAll(ctx, filter)
	if err != nil {
		return outcome[[]domain.Car](ctx, log, "list_cars", carMessages, err)
	}
	if len(cars) == 0 {
		return fail[[]domain.Car](StatusNoContent, carMessages.noneFound())
	}
	return success(cars, carMessages.fetchedN(len(cars)))
}

// Get implements CarService.Get
func (s *carServiceImpl) Get(ctx context.Context, id int64) Result[*domain.Car] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[*domain.Car](StatusBadRequest, carMessages.invalidID())
	}
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return outcome[*domain.Car](ctx, log, "get_car", carMessages, err)
	}
	return success(car, carMessages.fetched())
}

// Create implements CarService.Create
func (s *carServiceImpl) Create(ctx context.Context, car *domain.Car) Result[*domain.Car] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if car == nil {
		return fail[*domain.Car](StatusBadRequest, carMessages.required())
	}
	c := *car
	c.ID = 0
	c.Normalize()
	if err := c.Validate(); err != nil {
		return outcome[*domain.Car](ctx, log, "create_car", carMessages, err)
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cars := s.cars.WithTx(tx)

		dup, err := cars.ExistsDuplicate(ctx, &c, 0)
		if err != nil {
			return err
		}
		if dup {
			return abort(StatusConflict, carMessages.duplicate())
		}

		c.StampCreated(ActorID(ctx), s.now())
		id, err := cars.Insert(ctx, &c)
		if err != nil {
			return err
		}
		c.ID = id
		return nil
	})
	if err != nil {
		return outcome[*domain.Car](ctx, log, "create_car", carMessages, err)
	}

	log.Info("car created", slog.Int64("car_id", c.ID))
	return created(&c, carMessages.inserted())
}

// Update implements CarService.Update
func (s *carServiceImpl) Update(ctx context.Context, car *domain.Car) Result[*domain.Car] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if car == nil {
		return fail[*domain.Car](StatusBadRequest, carMessages.required())
	}
	if car.ID <= 0 {
		return fail[*domain.Car](StatusNotFound, carMessages.notFound())
	}
	c := *car

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cars := s.cars.WithTx(tx)

		existing, err := cars.FindByID(ctx, c.ID)
		if err != nil {
			return err
		}

		c.Normalize()
		if err := c.Validate(); err != nil {
			return err
		}

		dup, err := cars.ExistsDuplicate(ctx, &c, c.ID)
		if err != nil {
			return err
		}
		if dup {
			return abort(StatusConflict, carMessages.duplicate())
		}

		c.CreatedBy, c.CreatedOn = existing.CreatedBy, existing.CreatedOn
		c.StampModified(ActorID(ctx), s.now())
		return cars.Update(ctx, &c)
	})
	if err != nil {
		return outcome[*domain.Car](ctx, log, "update_car", carMessages, err)
	}

	log.Info("car updated", slog.Int64("car_id", c.ID))
	return success(&c, carMessages.updated())
}

// Delete implements CarService.Delete
func (s *carServiceImpl) Delete(ctx context.Context, id int64) Result[int64] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[int64](StatusBadRequest, carMessages.invalidID())
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cars := s.cars.WithTx(tx)

		if _, err := cars.FindByID(ctx, id); err != nil {
			return err
		}

		inUse, err := s.rentals.WithTx(tx).ExistsForCar(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return abort(StatusConflict, carMessages.inUse())
		}

		return cars.Delete(ctx, id)
	})
	if err != nil {
		return outcome[int64](ctx, log, "delete_car", carMessages, err)
	}

	log.Info("car deleted", slog.Int64("car_id", id))
	return success(id, carMessages.deleted())
}
