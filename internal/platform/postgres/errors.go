package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/karent-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// Operation names recorded on store.StoreError.
const (
	opQuery  = "query"
	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
)

// Foreign key constraints, named by PostgreSQL's default scheme.
const (
	rentalsUserFK         = "rentals_user_id_fkey"
	rentalsCarFK          = "rentals_car_id_fkey"
	rentalReturnsRentalFK = "rental_returns_rental_id_fkey"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context and provide better debugging information.
// This function should be used in all database operations to ensure consistent error handling.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrForeignKey,
				pgErr.ConstraintName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// wrapError maps err through MapError and records the entity and operation
// that failed. A foreign key violation on insert or update means the
// referenced row is missing, so it also carries that entity's not-found error.
func wrapError(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	mapped := MapError(err)
	if op != opDelete && IsForeignKeyViolation(err) {
		if missing := referencedNotFound(err); missing != nil {
			mapped = fmt.Errorf("%w: %w", missing, mapped)
		}
	}
	return store.NewStoreError(entity, op, "database operation failed", mapped)
}

func referencedNotFound(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.ConstraintName {
	case rentalsUserFK:
		return store.ErrUserNotFound
	case rentalsCarFK:
		return store.ErrCarNotFound
	case rentalReturnsRentalFK:
		return store.ErrRentalNotFound
	}
	return nil
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign key constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected examines the number of rows affected by an UPDATE or DELETE.
// If no rows were affected it returns notFound, which should be one of the
// entity-specific store errors.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}

// MapUniqueViolation maps a PostgreSQL unique violation error to specificError.
// Any other error goes through MapError.
func MapUniqueViolation(err error, specificError error) error {
	if !IsUniqueViolation(err) {
		return MapError(err)
	}
	if specificError == nil {
		specificError = store.ErrDuplicate
	}
	return fmt.Errorf("%w: %v", specificError, err)
}

// containsPattern builds the ILIKE argument for a "contains" filter.
// LIKE metacharacters in the filter are matched literally.
func containsPattern(filter string) string {
	var b []byte
	b = append(b, '%')
	for i := 0; i < len(filter); i++ {
		switch filter[i] {
		case '%', '_', '\\':
			b = append(b, '\\')
		}
		b = append(b, filter[i])
	}
	b = append(b, '%')
	return string(b)
}
