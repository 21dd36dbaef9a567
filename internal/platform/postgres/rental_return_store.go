package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/store"
)

const rentalReturnSelect = `
	SELECT rr.id, rr.rental_id, rr.return_date, rr.late_fee, rr.total_fee,
		r.user_id, u.name, c.brand, c.model, r.start_date, r.end_date, r.total_fee,
		rr.created_by, rr.created_on, rr.modified_by, rr.modified_on
	FROM rental_returns rr
	JOIN rentals r ON r.id = rr.rental_id
	JOIN users u ON u.id = r.user_id
	JOIN cars c ON c.id = r.car_id`

// PostgresRentalReturnStore implements the store.RentalReturnStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRentalReturnStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRentalReturnStore creates a new PostgreSQL implementation of the
// RentalReturnStore interface. If logger is nil, a default logger will be used.
func NewPostgresRentalReturnStore(db store.DBTX, logger *slog.Logger) *PostgresRentalReturnStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRentalReturnStore{
		db:     db,
		logger: logger.With(slog.String("component", "rental_return_store")),
	}
}

// Ensure PostgresRentalReturnStore implements store.RentalReturnStore interface
var _ store.RentalReturnStore = (*PostgresRentalReturnStore)(nil)

// WithTx implements store.RentalReturnStore.WithTx
func (s *PostgresRentalReturnStore) WithTx(tx *sql.Tx) store.RentalReturnStore {
	return &PostgresRentalReturnStore{db: tx, logger: s.logger}
}

func scanRentalReturn(row rowScanner) (*domain.RentalReturn, error) {
	var rr domain.RentalReturn
	err := row.Scan(
		&rr.ID,
		&rr.RentalID,
		&rr.ReturnDate,
		&rr.LateFee,
		&rr.TotalFee,
		&rr.UserID,
		&rr.UserName,
		&rr.CarBrand,
		&rr.CarModel,
		&rr.RentalStartDate,
		&rr.RentalEndDate,
		&rr.RentalTotalFee,
		&rr.CreatedBy,
		&rr.CreatedOn,
		&rr.ModifiedBy,
		&rr.ModifiedOn,
	)
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

func (s *PostgresRentalReturnStore) queryReturns(
	ctx context.Context,
	log *slog.Logger,
	query string,
	args ...any,
) ([]domain.RentalReturn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query rental returns", slog.String("error", err.Error()))
		return nil, wrapError("rental return", opQuery, err)
	}
	defer func() { _ = rows.Close() }()

	returns := []domain.RentalReturn{}
	for rows.Next() {
		rr, err := scanRentalReturn(rows)
		if err != nil {
			log.Error("failed to scan rental return row", slog.String("error", err.Error()))
			return nil, wrapError("rental return", opQuery, err)
		}
		returns = append(returns, *rr)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating rental return rows", slog.String("error", err.Error()))
		return nil, wrapError("rental return", opQuery, err)
	}
	return returns, nil
}

// FindAll implements store.RentalReturnStore.FindAll
func (s *PostgresRentalReturnStore) FindAll(ctx context.Context, filter string) ([]domain.RentalReturn, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing rental returns", slog.String("filter", filter))

	query := rentalReturnSelect + `
		WHERE c.brand ILIKE $1 OR c.model ILIKE $1 OR u.name ILIKE $1
		ORDER BY rr.id`
	return s.queryReturns(ctx, log, query, containsPattern(filter))
}

// FindAllForUser implements store.RentalReturnStore.FindAllForUser
func (s *PostgresRentalReturnStore) FindAllForUser(
	ctx context.Context,
	filter string,
	userID int64,
) ([]domain.RentalReturn, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing rental returns for user",
		slog.String("filter", filter),
		slog.Int64("user_id", userID))

	query := rentalReturnSelect + `
		WHERE (c.brand ILIKE $1 OR c.model ILIKE $1 OR u.name ILIKE $1) AND r.user_id = $2
		ORDER BY rr.id`
	return s.queryReturns(ctx, log, query, containsPattern(filter), userID)
}

// FindByID implements store.RentalReturnStore.FindByID
func (s *PostgresRentalReturnStore) FindByID(ctx context.Context, id int64) (*domain.RentalReturn, error) {
	return s.findOne(ctx, rentalReturnSelect+` WHERE rr.id = $1`, id)
}

// FindByIDForUser implements store.RentalReturnStore.FindByIDForUser
func (s *PostgresRentalReturnStore) FindByIDForUser(ctx context.Context, id, userID int64) (*domain.RentalReturn, error) {
	return s.findOne(ctx, rentalReturnSelect+` WHERE rr.id = $1 AND r.user_id = $2`, id, userID)
}

func (s *PostgresRentalReturnStore) findOne(ctx context.Context, query string, id int64, args ...any) (*domain.RentalReturn, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rr, err := scanRentalReturn(s.db.QueryRowContext(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("rental return not found", slog.Int64("rental_return_id", id))
			return nil, store.ErrRentalReturnNotFound
		}
		log.Error("failed to get rental return by ID",
			slog.String("error", err.Error()),
			slog.Int64("rental_return_id", id))
		return nil, wrapError("rental return", opQuery, err)
	}
	return rr, nil
}

// ExistsForRental implements store.RentalReturnStore.ExistsForRental
func (s *PostgresRentalReturnStore) ExistsForRental(ctx context.Context, rentalID, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM rental_returns WHERE rental_id = $1 AND id <> $2)`
	if err := s.db.QueryRowContext(ctx, query, rentalID, excludeID).Scan(&exists); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check rental returns",
			slog.String("error", err.Error()),
			slog.Int64("rental_id", rentalID))
		return false, wrapError("rental return", opQuery, err)
	}
	return exists, nil
}

// Insert implements store.RentalReturnStore.Insert
func (s *PostgresRentalReturnStore) Insert(ctx context.Context, rr *domain.RentalReturn) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO rental_returns (rental_id, return_date, late_fee, total_fee,
			created_by, created_on, modified_by, modified_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		rr.RentalID,
		rr.ReturnDate,
		rr.LateFee,
		rr.TotalFee,
		rr.CreatedBy,
		rr.CreatedOn,
		rr.ModifiedBy,
		rr.ModifiedOn,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("rental already returned", slog.Int64("rental_id", rr.RentalID))
			return 0, store.NewStoreError("rental return", opInsert, "unique constraint violated", MapUniqueViolation(err, store.ErrRentalAlreadyReturned))
		}
		log.Error("failed to insert rental return",
			slog.String("error", err.Error()),
			slog.Int64("rental_id", rr.RentalID))
		return 0, wrapError("rental return", opInsert, err)
	}

	log.Info("rental return created successfully",
		slog.Int64("rental_return_id", id),
		slog.Int64("rental_id", rr.RentalID))
	return id, nil
}

// Update implements store.RentalReturnStore.Update
func (s *PostgresRentalReturnStore) Update(ctx context.Context, rr *domain.RentalReturn) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE rental_returns
		SET rental_id = $1, return_date = $2, late_fee = $3, total_fee = $4,
			modified_by = $5, modified_on = $6
		WHERE id = $7`

	result, err := s.db.ExecContext(ctx, query,
		rr.RentalID,
		rr.ReturnDate,
		rr.LateFee,
		rr.TotalFee,
		rr.ModifiedBy,
		rr.ModifiedOn,
		rr.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.NewStoreError("rental return", opUpdate, "unique constraint violated", MapUniqueViolation(err, store.ErrRentalAlreadyReturned))
		}
		log.Error("failed to update rental return",
			slog.String("error", err.Error()),
			slog.Int64("rental_return_id", rr.ID))
		return wrapError("rental return", opUpdate, err)
	}
	if err := CheckRowsAffected(result, store.ErrRentalReturnNotFound); err != nil {
		log.Debug("rental return not found for update", slog.Int64("rental_return_id", rr.ID))
		return err
	}

	log.Info("rental return updated successfully", slog.Int64("rental_return_id", rr.ID))
	return nil
}

// Delete implements store.RentalReturnStore.Delete
func (s *PostgresRentalReturnStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM rental_returns WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete rental return",
			slog.String("error", err.Error()),
			slog.Int64("rental_return_id", id))
		return wrapError("rental return", opDelete, err)
	}
	if err := CheckRowsAffected(result, store.ErrRentalReturnNotFound); err != nil {
		log.Debug("rental return not found for delete", slog.Int64("rental_return_id", id))
		return err
	}

	log.Info("rental return deleted successfully", slog.Int64("rental_return_id", id))
	return nil
}
