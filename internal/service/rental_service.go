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

// RentalService manages bookings of cars by users. Rentals leaving the
// service carry the renting user's name and the car's brand and model.
type RentalService interface {
	// List returns rentals whose car brand, car model or user name contains
	// filter, ignoring case.
	List(ctx context.Context, filter string) Result[[]domain.Rental]

	// ListForUser is List restricted to rentals owned by userID.
	ListForUser(ctx context.Context, filter string, userID int64) Result[[]domain.Rental]

	// Get returns one rental.
	Get(ctx context.Context, id int64) Result[*domain.Rental]

	// GetForUser returns one rental if it is owned by userID.
	GetForUser(ctx context.Context, id, userID int64) Result[*domain.Rental]

	// Create validates and stores a new rental for an existing user and car.
	Create(ctx context.Context, rental *domain.Rental) Result[*domain.Rental]

	// Update overwrites every mutable field of an existing rental.
	Update(ctx context.Context, rental *domain.Rental) Result[*domain.Rental]

	// Delete removes a rental that has no recorded return.
	Delete(ctx context.Context, id int64) Result[int64]
}

// RentalOption configures a RentalService.
type RentalOption func(*rentalServiceImpl)

// WithAvailabilityCheck controls whether a rental may overlap an open
// rental of the same car. The check is enabled by default.
func WithAvailabilityCheck(enabled bool) RentalOption {
	return func(s *rentalServiceImpl) {
		s.enforceAvailability = enabled
	}
}

type rentalServiceImpl struct {
	txRunner            store.TxRunner
	rentals             store.RentalStore
	cars                store.CarStore
	users               store.UserStore
	returns             store.RentalReturnStore
	enforceAvailability bool
	logger              *slog.Logger
	now                 func() time.Time
}

// NewRentalService creates a new RentalService.
// It returns an error if any of the required dependencies are nil.
func NewRentalService(
	txRunner store.TxRunner,
	rentals store.RentalStore,
	cars store.CarStore,
	users store.UserStore,
	returns store.RentalReturnStore,
	logger *slog.Logger,
	opts ...RentalOption,
) (RentalService, error) {
	if txRunner == nil {
		return nil, missingDependency("rental", "txRunner")
	}
	if rentals == nil {
		return nil, missingDependency("rental", "rentalStore")
	}
	if cars == nil {
		return nil, missingDependency("rental", "carStore")
	}
	if users == nil {
		return nil, missingDependency("rental", "userStore")
	}
	if returns == nil {
		return nil, missingDependency("rental", "rentalReturnStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &rentalServiceImpl{
		txRunner:            txRunner,
		rentals:             rentals,
		cars:                cars,
		users:               users,
		returns:             returns,
		enforceAvailability: true,
		logger:              logger.With(slog.String("component", "rental_service")),
		now:                 func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List implements RentalService.List
func (s *rentalServiceImpl) List(ctx context.Context, filter string) Result[[]domain.Rental] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rentals, err := s.rentals.FindAll(ctx, filter)
	return s.listResult(ctx, log, "list_rentals", rentals, err)
}

// ListForUser implements RentalService.ListForUser
func (s *rentalServiceImpl) ListForUser(ctx context.Context, filter string, userID int64) Result[[]domain.Rental] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rentals, err := s.rentals.FindAllForUser(ctx, filter, userID)
	return s.listResult(ctx, log, "list_user_rentals", rentals, err)
}

func (s *rentalServiceImpl) listResult(
	ctx context.Context,
	log *slog.Logger,
	op string,
	rentals []domain.Rental,
	err error,
) Result[[]domain.Rental] {
	if err != nil {
		return outcome[[]domain.Rental](ctx, log, op, rentalMessages, err)
	}
	if len(rentals) == 0 {
		return fail[[]domain.Rental](StatusNoContent, rentalMessages.noneFound())
	}
	return success(rentals, rentalMessages.fetchedN(len(rentals)))
}

// Get implements RentalService.Get
func (s *rentalServiceImpl) Get(ctx context.Context, id int64) Result[*domain.Rental] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[*domain.Rental](StatusBadRequest, rentalMessages.invalidID())
	}
	rental, err := s.rentals.FindByID(ctx, id)
	if err != nil {
		return outcome[*domain.Rental](ctx, log, "get_rental", rentalMessages, err)
	}
	return success(rental, rentalMessages.fetched())
}

// GetForUser implements RentalService.GetForUser
func (s *rentalServiceImpl) GetForUser(ctx context.Context, id, userID int64) Result[*domain.Rental] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[*domain.Rental](StatusBadRequest, rentalMessages.invalidID())
	}
	rental, err := s.rentals.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return outcome[*domain.Rental](ctx, log, "get_user_rental", rentalMessages, err)
	}
	return success(rental, rentalMessages.fetched())
}

// checkReferences verifies the user and car exist and, when enabled, that
// the car has no open rental overlapping the requested dates.
func (s *rentalServiceImpl) checkReferences(ctx context.Context, tx *sql.Tx, r *domain.Rental) error {
	if _, err := s.users.WithTx(tx).FindByID(ctx, r.UserID); err != nil {
		return err
	}
	if _, err := s.cars.WithTx(tx).FindByID(ctx, r.CarID); err != nil {
		return err
	}
	if !s.enforceAvailability {
		return nil
	}

	overlapping, err := s.rentals.WithTx(tx).FindOverlapping(ctx, r.CarID, r.StartDate, r.EndDate, r.ID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return abort(StatusConflict, MsgCarUnavailable)
	}
	return nil
}

// Create implements RentalService.Create
func (s *rentalServiceImpl) Create(ctx context.Context, rental *domain.Rental) Result[*domain.Rental] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rental == nil {
		return fail[*domain.Rental](StatusBadRequest, rentalMessages.required())
	}
	r := writable(rental)
	r.ID = 0
	if err := r.Validate(); err != nil {
		return outcome[*domain.Rental](ctx, log, "create_rental", rentalMessages, err)
	}

	var saved *domain.Rental
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.checkReferences(ctx, tx, &r); err != nil {
			return err
		}

		rentals := s.rentals.WithTx(tx)
		r.StampCreated(ActorID(ctx), s.now())
		id, err := rentals.Insert(ctx, &r)
		if err != nil {
			return err
		}

		saved, err = rentals.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return outcome[*domain.Rental](ctx, log, "create_rental", rentalMessages, err)
	}

	log.Info("rental created",
		slog.Int64("rental_id", saved.ID),
		slog.Int64("car_id", saved.CarID),
		slog.Int64("user_id", saved.UserID))
	return created(saved, rentalMessages.inserted())
}

// Update implements RentalService.Update
func (s *rentalServiceImpl) Update(ctx context.Context, rental *domain.Rental) Result[*domain.Rental] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rental == nil {
		return fail[*domain.Rental](StatusBadRequest, rentalMessages.required())
	}
	if rental.ID <= 0 {
		return fail[*domain.Rental](StatusNotFound, rentalMessages.notFound())
	}
	r := writable(rental)

	var saved *domain.Rental
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		rentals := s.rentals.WithTx(tx)

		existing, err := rentals.FindByID(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, tx, &r); err != nil {
			return err
		}

		r.CreatedBy, r.CreatedOn = existing.CreatedBy, existing.CreatedOn
		r.StampModified(ActorID(ctx), s.now())
		if err := rentals.Update(ctx, &r); err != nil {
			return err
		}

		saved, err = rentals.FindByID(ctx, r.ID)
		return err
	})
	if err != nil {
		return outcome[*domain.Rental](ctx, log, "update_rental", rentalMessages, err)
	}

	log.Info("rental updated", slog.Int64("rental_id", saved.ID))
	return success(saved, rentalMessages.updated())
}

// Delete implements RentalService.Delete
func (s *rentalServiceImpl) Delete(ctx context.Context, id int64) Result[int64] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[int64](StatusBadRequest, rentalMessages.invalidID())
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		rentals := s.rentals.WithTx(tx)

		if _, err := rentals.FindByID(ctx, id); err != nil {
			return err
		}

		returned, err := s.returns.WithTx(tx).ExistsForRental(ctx, id, 0)
		if err != nil {
			return err
		}
		if returned {
			return abort(StatusConflict, rentalMessages.inUse())
		}

		return rentals.Delete(ctx, id)
	})
	if err != nil {
		return outcome[int64](ctx, log, "delete_rental", rentalMessages, err)
	}

	log.Info("rental deleted", slog.Int64("rental_id", id))
	return success(id, rentalMessages.deleted())
}

// writable copies the caller-owned columns of r, dropping joined values.
func writable(r *domain.Rental) domain.Rental {
	return domain.Rental{
		ID:        r.ID,
		UserID:    r.UserID,
		CarID:     r.CarID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		TotalFee:  r.TotalFee,
	}
}
