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

// RentalReturnService records the closing of rentals. A rental has at most
// one return. Returns submitted without fees are priced from the rental's
// agreed fee and the car's late rate.
type RentalReturnService interface {
	// List returns returns whose car brand, car model or user name contains
	// filter, ignoring case.
	List(ctx context.Context, filter string) Result[[]domain.RentalReturn]

	// ListForUser is List restricted to returns of rentals owned by userID.
	ListForUser(ctx context.Context, filter string, userID int64) Result[[]domain.RentalReturn]

	// Get returns one rental return.
	Get(ctx context.Context, id int64) Result[*domain.RentalReturn]

	// GetForUser returns one rental return if its rental is owned by userID.
	GetForUser(ctx context.Context, id, userID int64) Result[*domain.RentalReturn]

	// Create records the return of an open rental.
	Create(ctx context.Context, rr *domain.RentalReturn) Result[*domain.RentalReturn]

	// Update overwrites every mutable field of an existing return.
	Update(ctx context.Context, rr *domain.RentalReturn) Result[*domain.RentalReturn]

	// Delete removes a return, reopening its rental.
	Delete(ctx context.Context, id int64) Result[int64]

	// Quote prices returning rentalID on returnDate without recording it.
	Quote(ctx context.Context, rentalID int64, returnDate time.Time) Result[*domain.FeeQuote]

	// QuoteForUser is Quote for a rental owned by userID.
	QuoteForUser(ctx context.Context, rentalID, userID int64, returnDate time.Time) Result[*domain.FeeQuote]
}

type rentalReturnServiceImpl struct {
	txRunner store.TxRunner
	returns  store.RentalReturnStore
	rentals  store.RentalStore
	cars     store.CarStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewRentalReturnService creates a new RentalReturnService.
// It returns an error if any of the required dependencies are nil.
func NewRentalReturnService(
	txRunner store.TxRunner,
	returns store.RentalReturnStore,
	rentals store.RentalStore,
	cars store.CarStore,
	logger *slog.Logger,
) (RentalReturnService, error) {
	if txRunner == nil {
		return nil, missingDependency("rental return", "txRunner")
	}
	if returns == nil {
		return nil, missingDependency("rental return", "rentalReturnStore")
	}
	if rentals == nil {
		return nil, missingDependency("rental return", "rentalStore")
	}
	if cars == nil {
		return nil, missingDependency("rental return", "carStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &rentalReturnServiceImpl{
		txRunner: txRunner,
		returns:  returns,
		rentals:  rentals,
		cars:     cars,
		logger:   logger.With(slog.String("component", "rental_return_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// List implements RentalReturnService.List
func (s *rentalReturnServiceImpl) List(ctx context.Context, filter string) Result[[]domain.RentalReturn] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	returns, err := s.returns.FindAll(ctx, filter)
	return s.listResult(ctx, log, "list_rental_returns", returns, err)
}

// ListForUser implements RentalReturnService.ListForUser
func (s *rentalReturnServiceImpl) ListForUser(
	ctx context.Context,
	filter string,
	userID int64,
) Result[[]domain.RentalReturn] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	returns, err := s.returns.FindAllForUser(ctx, filter, userID)
	return s.listResult(ctx, log, "list_user_rental_returns", returns, err)
}

func (s *rentalReturnServiceImpl) listResult(
	ctx context.Context,
	log *slog.Logger,
	op string,
	returns []domain.RentalReturn,
	err error,
) Result[[]domain.RentalReturn] {
	if err != nil {
		return outcome[[]domain.RentalReturn](ctx, log, op, rentalReturnMessages, err)
	}
	if len(returns) == 0 {
		return fail[[]domain.RentalReturn](StatusNoContent, rentalReturnMessages.noneFound())
	}
	return success(returns, rentalReturnMessages.fetchedN(len(returns)))
}

// Get implements RentalReturnService.Get
func (s *rentalReturnServiceImpl) Get(ctx context.Context, id int64) Result[*domain.RentalReturn] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[*domain.RentalReturn](StatusBadRequest, rentalReturnMessages.invalidID())
	}
	rr, err := s.returns.FindByID(ctx, id)
	if err != nil {
		return outcome[*domain.RentalReturn](ctx, log, "get_rental_return", rentalReturnMessages, err)
	}
	return success(rr, rentalReturnMessages.fetched())
}

// GetForUser implements RentalReturnService.GetForUser
func (s *rentalReturnServiceImpl) GetForUser(ctx context.Context, id, userID int64) Result[*domain.RentalReturn] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[*domain.RentalReturn](StatusBadRequest, rentalReturnMessages.invalidID())
	}
	rr, err := s.returns.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return outcome[*domain.RentalReturn](ctx, log, "get_user_rental_return", rentalReturnMessages, err)
	}
	return success(rr, rentalReturnMessages.fetched())
}

// prepare checks the rental is open and settles the fees, pricing the
// return when the caller left both fees at zero.
func (s *rentalReturnServiceImpl) prepare(ctx context.Context, tx *sql.Tx, rr *domain.RentalReturn) error {
	rental, err := s.rentals.WithTx(tx).FindByID(ctx, rr.RentalID)
	if err != nil {
		return err
	}

	returned, err := s.returns.WithTx(tx).ExistsForRental(ctx, rr.RentalID, rr.ID)
	if err != nil {
		return err
	}
	if returned {
		return abort(StatusConflict, MsgRentalAlreadyReturned)
	}

	if rr.FeesSupplied() {
		return rr.ValidateSupplied()
	}

	car, err := s.cars.WithTx(tx).FindByID(ctx, rental.CarID)
	if err != nil {
		return err
	}
	quote := domain.QuoteReturn(rental, car, rr.ReturnDate)
	rr.LateFee, rr.TotalFee = quote.LateFee, quote.TotalFee
	return nil
}

// Create implements RentalReturnService.Create
func (s *rentalReturnServiceImpl) Create(ctx context.Context, rr *domain.RentalReturn) Result[*domain.RentalReturn] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rr == nil {
		return fail[*domain.RentalReturn](StatusBadRequest, rentalReturnMessages.required())
	}
	r := writableReturn(rr)
	r.ID = 0
	if err := r.Validate(); err != nil {
		return outcome[*domain.RentalReturn](ctx, log, "create_rental_return", rentalReturnMessages, err)
	}

	var saved *domain.RentalReturn
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.prepare(ctx, tx, &r); err != nil {
			return err
		}

		returns := s.returns.WithTx(tx)
		r.StampCreated(ActorID(ctx), s.now())
		id, err := returns.Insert(ctx, &r)
		if err != nil {
			return err
		}

		saved, err = returns.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return outcome[*domain.RentalReturn](ctx, log, "create_rental_return", rentalReturnMessages, err)
	}

	log.Info("rental return created",
		slog.Int64("rental_return_id", saved.ID),
		slog.Int64("rental_id", saved.RentalID),
		slog.String("late_fee", saved.LateFee.String()))
	return created(saved, rentalReturnMessages.inserted())
}

// Update implements RentalReturnService.Update
func (s *rentalReturnServiceImpl) Update(ctx context.Context, rr *domain.RentalReturn) Result[*domain.RentalReturn] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rr == nil {
		return fail[*domain.RentalReturn](StatusBadRequest, rentalReturnMessages.required())
	}
	if rr.ID <= 0 {
		return fail[*domain.RentalReturn](StatusNotFound, rentalReturnMessages.notFound())
	}
	r := writableReturn(rr)

	var saved *domain.RentalReturn
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		returns := s.returns.WithTx(tx)

		existing, err := returns.FindByID(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if err := s.prepare(ctx, tx, &r); err != nil {
			return err
		}

		r.CreatedBy, r.CreatedOn = existing.CreatedBy, existing.CreatedOn
		r.StampModified(ActorID(ctx), s.now())
		if err := returns.Update(ctx, &r); err != nil {
			return err
		}

		saved, err = returns.FindByID(ctx, r.ID)
		return err
	})
	if err != nil {
		return outcome[*domain.RentalReturn](ctx, log, "update_rental_return", rentalReturnMessages, err)
	}

	log.Info("rental return updated", slog.Int64("rental_return_id", saved.ID))
	return success(saved, rentalReturnMessages.updated())
}

// Delete implements RentalReturnService.Delete
func (s *rentalReturnServiceImpl) Delete(ctx context.Context, id int64) Result[int64] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[int64](StatusBadRequest, rentalReturnMessages.invalidID())
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		returns := s.returns.WithTx(tx)

		if _, err := returns.FindByID(ctx, id); err != nil {
			return err
		}
		return returns.Delete(ctx, id)
	})
	if err != nil {
		return outcome[int64](ctx, log, "delete_rental_return", rentalReturnMessages, err)
	}

	log.Info("rental return deleted", slog.Int64("rental_return_id", id))
	return success(id, rentalReturnMessages.deleted())
}

// Quote implements RentalReturnService.Quote
func (s *rentalReturnServiceImpl) Quote(
	ctx context.Context,
	rentalID int64,
	returnDate time.Time,
) Result[*domain.FeeQuote] {
	return s.quote(ctx, rentalID, 0, returnDate)
}

// QuoteForUser implements RentalReturnService.QuoteForUser
func (s *rentalReturnServiceImpl) QuoteForUser(
	ctx context.Context,
	rentalID, userID int64,
	returnDate time.Time,
) Result[*domain.FeeQuote] {
	return s.quote(ctx, rentalID, userID, returnDate)
}

func (s *rentalReturnServiceImpl) quote(
	ctx context.Context,
	rentalID, userID int64,
	returnDate time.Time,
) Result[*domain.FeeQuote] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if rentalID <= 0 {
		return fail[*domain.FeeQuote](StatusBadRequest, rentalMessages.invalidID())
	}
	if returnDate.IsZero() {
		return fail[*domain.FeeQuote](StatusBadRequest, "Return date is required.")
	}

	var (
		rental *domain.Rental
		err    error
	)
	if userID > 0 {
		rental, err = s.rentals.FindByIDForUser(ctx, rentalID, userID)
	} else {
		rental, err = s.rentals.FindByID(ctx, rentalID)
	}
	if err != nil {
		return outcome[*domain.FeeQuote](ctx, log, "quote_rental_return", rentalReturnMessages, err)
	}

	car, err := s.cars.FindByID(ctx, rental.CarID)
	if err != nil {
		return outcome[*domain.FeeQuote](ctx, log, "quote_rental_return", rentalReturnMessages, err)
	}

	quote := domain.QuoteReturn(rental, car, returnDate)
	return success(&quote, MsgQuoteCalculated)
}

// writableReturn copies the caller-owned columns of rr, dropping joined values.
func writableReturn(rr *domain.RentalReturn) domain.RentalReturn {
	return domain.RentalReturn{
		ID:         rr.ID,
		RentalID:   rr.RentalID,
		ReturnDate: rr.ReturnDate,
		LateFee:    rr.LateFee,
		TotalFee:   rr.TotalFee,
	}
}
