package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/karent-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// FindAll returns users whose name or email contains filter, ignoring case.
	// An empty filter returns every user. Results are ordered by id.
	FindAll(ctx context.Context, filter string) ([]domain.User, error)

	// FindByID retrieves a user by id, including the stored password hash.
	// Returns ErrUserNotFound if the user does not exist.
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// FindByEmail retrieves a user by exact email, including the stored hash.
	// Returns ErrUserNotFound if no user has that email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsDuplicate reports whether another user has the same email
	// (ignoring case) AND the same phone number AND the same driving license
	// number, where two absent values count as equal. The user with id
	// excludeID is not considered.
	ExistsDuplicate(ctx context.Context, user *domain.User, excludeID int64) (bool, error)

	// Insert stores a new user with user.HashedPassword and returns its id.
	// Returns ErrEmailExists if the email is already taken.
	Insert(ctx context.Context, user *domain.User) (int64, error)

	// Update overwrites the profile columns of an existing user. The stored
	// password hash is left untouched.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePassword replaces the stored password hash of an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error

	// Delete removes a user by id.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
