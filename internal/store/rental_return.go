package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/karent-api/internal/domain"
)

// RentalReturnStore defines the interface for rental return persistence.
// Reads join in the rental's dates and fee, the user and the car.
type RentalReturnStore interface {
	// FindAll returns returns whose car brand, car model or user name
	// contains filter, ignoring case. Results are ordered by id.
	FindAll(ctx context.Context, filter string) ([]domain.RentalReturn, error)

	// FindAllForUser is FindAll restricted to returns of rentals owned by userID.
	FindAllForUser(ctx context.Context, filter string, userID int64) ([]domain.RentalReturn, error)

	// FindByID retrieves a return by id.
	// Returns ErrRentalReturnNotFound if the return does not exist.
	FindByID(ctx context.Context, id int64) (*domain.RentalReturn, error)

	// FindByIDForUser retrieves a return by id only if its rental belongs to userID.
	FindByIDForUser(ctx context.Context, id, userID int64) (*domain.RentalReturn, error)

	// ExistsForRental reports whether a return references the rental. The
	// return with id excludeID is not considered.
	ExistsForRental(ctx context.Context, rentalID, excludeID int64) (bool, error)

	// Insert stores a new return and returns its generated id.
	// Returns ErrRentalAlreadyReturned if the rental already has a return.
	Insert(ctx context.Context, rr *domain.RentalReturn) (int64, error)

	// Update overwrites every mutable column of an existing return.
	// Returns ErrRentalReturnNotFound if the return does not exist.
	Update(ctx context.Context, rr *domain.RentalReturn) error

	// Delete removes a return by id.
	// Returns ErrRentalReturnNotFound if the return does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new RentalReturnStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RentalReturnStore
}
