package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/karent-api/internal/domain"
)

// CarStore defines the interface for car data persistence.
type CarStore interface {
	// FindAll returns cars whose brand or model contains filter, ignoring case.
	// An empty filter returns every car. Results are ordered by id.
	FindAll(ctx context.Context, filter string) ([]domain.Car, error)

	// FindByID retrieves a car by id.
	// Returns ErrCarNotFound if the car does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Car, error)

	// ExistsDuplicate reports whether another car shares the brand, model and
	// year of car, ignoring case. The car with id excludeID is not considered.
	ExistsDuplicate(ctx context.Context, car *domain.Car, excludeID int64) (bool, error)

	// Insert stores a new car and returns its generated id.
	Insert(ctx context.Context, car *domain.Car) (int64, error)

	// Update overwrites every mutable column of an existing car.
	// Returns ErrCarNotFound if the car does not exist.
	Update(ctx context.Context, car *domain.Car) error

	// Delete removes a car by id.
	// Returns ErrCarNotFound if the car does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new CarStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CarStore
}
