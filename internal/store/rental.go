package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
)

// RentalStore defines the interface for rental data persistence.
// Reads join in the renting user's name and the car's brand and model.
type RentalStore interface {
	// FindAll returns rentals whose car brand, car model or user name
	// contains filter, ignoring case. Results are ordered by id.
	FindAll(ctx context.Context, filter string) ([]domain.Rental, error)

	// FindAllForUser is FindAll restricted to rentals of userID.
	FindAllForUser(ctx context.Context, filter string, userID int64) ([]domain.Rental, error)

	// FindByID retrieves a rental by id.
	// Returns ErrRentalNotFound if the rental does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Rental, error)

	// FindByIDForUser retrieves a rental by id only if it belongs to userID.
	// Returns ErrRentalNotFound otherwise.
	FindByIDForUser(ctx context.Context, id, userID int64) (*domain.Rental, error)

	// ExistsForCar reports whether any rental references the car.
	ExistsForCar(ctx context.Context, carID int64) (bool, error)

	// ExistsForUser reports whether any rental references the user.
	ExistsForUser(ctx context.Context, userID int64) (bool, error)

	// FindOverlapping returns rentals of carID without a recorded return whose
	// inclusive date range intersects [start, end]. The rental with id
	// excludeID is not considered.
	FindOverlapping(ctx context.Context, carID int64, start, end time.Time, excludeID int64) ([]domain.Rental, error)

	// Insert stores a new rental and returns its generated id.
	Insert(ctx context.Context, rental *domain.Rental) (int64, error)

	// Update overwrites every mutable column of an existing rental.
	// Returns ErrRentalNotFound if the rental does not exist.
	Update(ctx context.Context, rental *domain.Rental) error

	// Delete removes a rental by id.
	// Returns ErrRentalNotFound if the rental does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new RentalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RentalStore
}
