package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/store"
)

const rentalSelect = `
	SELECT r.id, r.user_id, r.car_id, r.start_date, r.end_date, r.total_fee,
		u.name, c.brand, c.model,
		r.created_by, r.created_on, r.modified_by, r.modified_on
	FROM rentals r
	JOIN users u ON u.id = r.user_id
	JOIN cars c ON c.id = r.car_id`

// PostgresRentalStore implements the store.RentalStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRentalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRentalStore creates a new PostgreSQL implementation of the RentalStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRentalStore(db store.DBTX, logger *slog.Logger) *PostgresRentalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRentalStore{
		db:     db,
		logger: logger.With(slog.String("component", "rental_store")),
	}
}

// Ensure PostgresRentalStore implements store.RentalStore interface
var _ store.RentalStore = (*PostgresRentalStore)(nil)

// WithTx implements store.RentalStore.WithTx
func (s *PostgresRentalStore) WithTx(tx *sql.Tx) store.RentalStore {
	return &PostgresRentalStore{db: tx, logger: s.logger}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	var r domain.Rental
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.CarID,
		&r.StartDate,
		&r.EndDate,
		&r.TotalFee,
		&r.UserName,
		&r.CarBrand,
		&r.CarModel,
		&r.CreatedBy,
		&r.CreatedOn,
		&r.ModifiedBy,
		&r.ModifiedOn,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresRentalStore) queryRentals(ctx context.Context, log *slog.Logger, query string, args ...any) ([]domain.Rental, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query rentals", slog.String("error", err.Error()))
		return nil, wrapError("rental", opQuery, err)
	}
	defer func() { _ = rows.Close() }()

	rentals := []domain.Rental{}
	for rows.Next() {
		r, err := scanRental(rows)
		if err != nil {
			log.Error("failed to scan rental row", slog.String("error", err.Error()))
			return nil, wrapError("rental", opQuery, err)
		}
		rentals = append(rentals, *r)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating rental rows", slog.String("error", err.Error()))
		return nil, wrapError("rental", opQuery, err)
	}
	return rentals, nil
}

// FindAll implements store.RentalStore.FindAll
func (s *PostgresRentalStore) FindAll(ctx context.Context, filter string) ([]domain.Rental, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing rentals", slog.String("filter", filter))

	query := rentalSelect + `
		WHERE c.brand ILIKE $1 OR c.model ILIKE $1 OR u.name ILIKE $1
		ORDER BY r.id`
	return s.queryRentals(ctx, log, query, containsPattern(filter))
}

// FindAllForUser implements store.RentalStore.FindAllForUser
func (s *PostgresRentalStore) FindAllForUser(ctx context.Context, filter string, userID int64) ([]domain.Rental, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing rentals for user",
		slog.String("filter", filter),
		slog.Int64("user_id", userID))

	query := rentalSelect + `
		WHERE (c.brand ILIKE $1 OR c.model ILIKE $1 OR u.name ILIKE $1) AND r.user_id = $2
		ORDER BY r.id`
	return s.queryRentals(ctx, log, query, containsPattern(filter), userID)
}

// FindByID implements store.RentalStore.FindByID
func (s *PostgresRentalStore) FindByID(ctx context.Context, id int64) (*domain.Rental, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	return s.findOne(ctx, log, rentalSelect+` WHERE r.id = $1`, id)
}

// FindByIDForUser implements store.RentalStore.FindByIDForUser
func (s *PostgresRentalStore) FindByIDForUser(ctx context.Context, id, userID int64) (*domain.Rental, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("user_id", userID))
	return s.findOne(ctx, log, rentalSelect+` WHERE r.id = $1 AND r.user_id = $2`, id, userID)
}

func (s *PostgresRentalStore) findOne(ctx context.Context, log *slog.Logger, query string, id int64, args ...any) (*domain.Rental, error) {
	rental, err := scanRental(s.db.QueryRowContext(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("rental not found", slog.Int64("rental_id", id))
			return nil, store.ErrRentalNotFound
		}
		log.Error("failed to get rental by ID",
			slog.String("error", err.Error()),
			slog.Int64("rental_id", id))
		return nil, wrapError("rental", opQuery, err)
	}
	return rental, nil
}

// ExistsForCar implements store.RentalStore.ExistsForCar
func (s *PostgresRentalStore) ExistsForCar(ctx context.Context, carID int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE car_id = $1)`, carID)
}

// ExistsForUser implements store.RentalStore.ExistsForUser
func (s *PostgresRentalStore) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE user_id = $1)`, userID)
}

func (s *PostgresRentalStore) exists(ctx context.Context, query string, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check rental references",
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return false, wrapError("rental", opQuery, err)
	}
	return exists, nil
}

// FindOverlapping implements store.RentalStore.FindOverlapping
func (s *PostgresRentalStore) FindOverlapping(
	ctx context.Context,
	carID int64,
	start, end time.Time,
	excludeID int64,
) ([]domain.Rental, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("finding overlapping rentals",
		slog.Int64("car_id", carID),
		slog.Time("start_date", start),
		slog.Time("end_date", end))

	query := rentalSelect + `
		WHERE r.car_id = $1
			AND r.start_date <= $3
			AND r.end_date >= $2
			AND r.id <> $4
			AND NOT EXISTS (SELECT 1 FROM rental_returns rr WHERE rr.rental_id = r.id)
		ORDER BY r.id`
	return s.queryRentals(ctx, log, query, carID, start, end, excludeID)
}

// Insert implements store.RentalStore.Insert
func (s *PostgresRentalStore) Insert(ctx context.Context, rental *domain.Rental) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO rentals (user_id, car_id, start_date, end_date, total_fee,
			created_by, created_on, modified_by, modified_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		rental.UserID,
		rental.CarID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalFee,
		rental.CreatedBy,
		rental.CreatedOn,
		rental.ModifiedBy,
		rental.ModifiedOn,
	).Scan(&id)
	if err != nil {
		log.Error("failed to insert rental",
			slog.String("error", err.Error()),
			slog.Int64("user_id", rental.UserID),
			slog.Int64("car_id", rental.CarID))
		return 0, wrapError("rental", opInsert, err)
	}

	log.Info("rental created successfully",
		slog.Int64("rental_id", id),
		slog.Int64("car_id", rental.CarID))
	return id, nil
}

// Update implements store.RentalStore.Update
func (s *PostgresRentalStore) Update(ctx context.Context, rental *domain.Rental) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE rentals
		SET user_id = $1, car_id = $2, start_date = $3, end_date = $4, total_fee = $5,
			modified_by = $6, modified_on = $7
		WHERE id = $8`

	result, err := s.db.ExecContext(ctx, query,
		rental.UserID,
		rental.CarID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalFee,
		rental.ModifiedBy,
		rental.ModifiedOn,
		rental.ID,
	)
	if err != nil {
		log.Error("failed to update rental",
			slog.String("error", err.Error()),
			slog.Int64("rental_id", rental.ID))
		return wrapError("rental", opUpdate, err)
	}
	if err := CheckRowsAffected(result, store.ErrRentalNotFound); err != nil {
		log.Debug("rental not found for update", slog.Int64("rental_id", rental.ID))
		return err
	}

	log.Info("rental updated successfully", slog.Int64("rental_id", rental.ID))
	return nil
}

// Delete implements store.RentalStore.Delete
func (s *PostgresRentalStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete rental",
			slog.String("error", err.Error()),
			slog.Int64("rental_id", id))
		return wrapError("rental", opDelete, err)
	}
	if err := CheckRowsAffected(result, store.ErrRentalNotFound); err != nil {
		log.Debug("rental not found for delete", slog.Int64("rental_id", id))
		return err
	}

	log.Info("rental deleted successfully", slog.Int64("rental_id", id))
	return nil
}
