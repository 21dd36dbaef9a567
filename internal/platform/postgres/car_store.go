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

const carColumns = `id, brand, model, year, plate_number, rental_rate_per_day, late_rate_per_day,
	status, created_by, created_on, modified_by, modified_on`

// PostgresCarStore implements the store.CarStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCarStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCarStore creates a new PostgreSQL implementation of the CarStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCarStore(db store.DBTX, logger *slog.Logger) *PostgresCarStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCarStore{
		db:     db,
		logger: logger.With(slog.String("component", "car_store")),
	}
}

// Ensure PostgresCarStore implements store.CarStore interface
var _ store.CarStore = (*PostgresCarStore)(nil)

// WithTx implements store.CarStore.WithTx
func (s *PostgresCarStore) WithTx(tx *sql.Tx) store.CarStore {
	return &PostgresCarStore{db: tx, logger: s.logger}
}

func scanCar(row rowScanner) (*domain.Car, error) {
	var c domain.Car
	err := row.Scan(
		&c.ID,
		&c.Brand,
		&c.Model,
		&c.Year,
		&c.PlateNumber,
		&c.RentalRatePerDay,
		&c.LateRatePerDay,
		&c.Status,
		&c.CreatedBy,
		&c.CreatedOn,
		&c.ModifiedBy,
		&c.ModifiedOn,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAll implements store.CarStore.FindAll
func (s *PostgresCarStore) FindAll(ctx context.Context, filter string) ([]domain.Car, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing cars", slog.String("filter", filter))

	query := `SELECT ` + carColumns + `
		FROM cars
		WHERE brand ILIKE $1 OR model ILIKE $1
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, containsPattern(filter))
	if err != nil {
		log.Error("failed to query cars", slog.String("error", err.Error()))
		return nil, wrapError("car", opQuery, err)
	}
	defer func() { _ = rows.Close() }()

	cars := []domain.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			log.Error("failed to scan car row", slog.String("error", err.Error()))
			return nil, wrapError("car", opQuery, err)
		}
		cars = append(cars, *c)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating car rows", slog.String("error", err.Error()))
		return nil, wrapError("car", opQuery, err)
	}

	log.Debug("cars listed", slog.Int("count", len(cars)))
	return cars, nil
}

// FindByID implements store.CarStore.FindByID
func (s *PostgresCarStore) FindByID(ctx context.Context, id int64) (*domain.Car, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving car by ID", slog.Int64("car_id", id))

	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("car not found", slog.Int64("car_id", id))
			return nil, store.ErrCarNotFound
		}
		log.Error("failed to get car by ID",
			slog.String("error", err.Error()),
			slog.Int64("car_id", id))
		return nil, wrapError("car", opQuery, err)
	}
	return car, nil
}

// ExistsDuplicate implements store.CarStore.ExistsDuplicate
func (s *PostgresCarStore) ExistsDuplicate(ctx context.Context, car *domain.Car, excludeID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (
		SELECT 1 FROM cars
		WHERE lower(brand) = lower($1) AND lower(model) = lower($2) AND year = $3 AND id <> $4
	)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, car.Brand, car.Model, car.Year, excludeID).Scan(&exists); err != nil {
		log.Error("failed to check for duplicate car",
			slog.String("error", err.Error()),
			slog.String("brand", car.Brand),
			slog.String("model", car.Model))
		return false, wrapError("car", opQuery, err)
	}
	return exists, nil
}

// Insert implements store.CarStore.Insert
func (s *PostgresCarStore) Insert(ctx context.Context, car *domain.Car) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO cars (brand, model, year, plate_number, rental_rate_per_day, late_rate_per_day,
			status, created_by, created_on, modified_by, modified_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		car.Brand,
		car.Model,
		car.Year,
		car.PlateNumber,
		car.RentalRatePerDay,
		car.LateRatePerDay,
		car.Status,
		car.CreatedBy,
		car.CreatedOn,
		car.ModifiedBy,
		car.ModifiedOn,
	).Scan(&id)
	if err != nil {
		log.Error("failed to insert car",
			slog.String("error", err.Error()),
			slog.String("brand", car.Brand),
			slog.String("model", car.Model))
		return 0, wrapError("car", opInsert, err)
	}

	log.Info("car created successfully", slog.Int64("car_id", id))
	return id, nil
}

// Update implements store.CarStore.Update
func (s *PostgresCarStore) Update(ctx context.Context, car *domain.Car) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cars
		SET brand = $1, model = $2, year = $3, plate_number = $4, rental_rate_per_day = $5,
			late_rate_per_day = $6, status = $7, modified_by = $8, modified_on = $9
		WHERE id = $10`

	result, err := s.db.ExecContext(ctx, query,
		car.Brand,
		car.Model,
		car.Year,
		car.PlateNumber,
		car.RentalRatePerDay,
		car.LateRatePerDay,
		car.Status,
		car.ModifiedBy,
		car.ModifiedOn,
		car.ID,
	)
	if err != nil {
		log.Error("failed to update car",
			slog.String("error", err.Error()),
			slog.Int64("car_id", car.ID))
		return wrapError("car", opUpdate, err)
	}
	if err := CheckRowsAffected(result, store.ErrCarNotFound); err != nil {
		log.Debug("car not found for update", slog.Int64("car_id", car.ID))
		return err
	}

	log.Info("car updated successfully", slog.Int64("car_id", car.ID))
	return nil
}

// Delete implements store.CarStore.Delete
func (s *PostgresCarStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete car",
			slog.String("error", err.Error()),
			slog.Int64("car_id", id))
		return wrapError("car", opDelete, err)
	}
	if err := CheckRowsAffected(result, store.ErrCarNotFound); err != nil {
		log.Debug("car not found for delete", slog.Int64("car_id", id))
		return err
	}

	log.Info("car deleted successfully", slog.Int64("car_id", id))
	return nil
}
