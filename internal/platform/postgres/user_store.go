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

const userColumns = `id, name, email, address, phone_number, driving_license_number, hashed_password,
	user_type, created_by, created_on, modified_by, modified_on`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Address,
		&u.PhoneNumber,
		&u.DrivingLicenseNumber,
		&u.HashedPassword,
		&u.UserType,
		&u.CreatedBy,
		&u.CreatedOn,
		&u.ModifiedBy,
		&u.ModifiedOn,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll implements store.UserStore.FindAll
func (s *PostgresUserStore) FindAll(ctx context.Context, filter string) ([]domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing users", slog.String("filter", filter))

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE name ILIKE $1 OR email ILIKE $1
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, containsPattern(filter))
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, wrapError("user", opQuery, err)
	}
	defer func() { _ = rows.Close() }()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, wrapError("user", opQuery, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating user rows", slog.String("error", err.Error()))
		return nil, wrapError("user", opQuery, err)
	}

	log.Debug("users listed", slog.Int("count", len(users)))
	return users, nil
}

// FindByID implements store.UserStore.FindByID
func (s *PostgresUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving user by ID", slog.Int64("user_id", id))

	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.Int64("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, wrapError("user", opQuery, err)
	}
	return user, nil
}

// FindByEmail implements store.UserStore.FindByEmail
func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The email is not logged to avoid leaking which addresses exist.
			log.Debug("user not found by email")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, wrapError("user", opQuery, err)
	}
	return user, nil
}

// ExistsDuplicate implements store.UserStore.ExistsDuplicate
func (s *PostgresUserStore) ExistsDuplicate(ctx context.Context, user *domain.User, excludeID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (
		SELECT 1 FROM users
		WHERE lower(email) = lower($1)
			AND phone_number IS NOT DISTINCT FROM $2
			AND driving_license_number IS NOT DISTINCT FROM $3
			AND id <> $4
	)`

	var exists bool
	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.PhoneNumber,
		user.DrivingLicenseNumber,
		excludeID,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check for duplicate user", slog.String("error", err.Error()))
		return false, wrapError("user", opQuery, err)
	}
	return exists, nil
}

// Insert implements store.UserStore.Insert
func (s *PostgresUserStore) Insert(ctx context.Context, user *domain.User) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO users (name, email, address, phone_number, driving_license_number, hashed_password,
			user_type, created_by, created_on, modified_by, modified_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.Address,
		user.PhoneNumber,
		user.DrivingLicenseNumber,
		user.HashedPassword,
		user.UserType,
		user.CreatedBy,
		user.CreatedOn,
		user.ModifiedBy,
		user.ModifiedOn,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("email already exists during user insert")
			return 0, store.NewStoreError("user", opInsert, "unique constraint violated", MapUniqueViolation(err, store.ErrEmailExists))
		}
		log.Error("failed to insert user", slog.String("error", err.Error()))
		return 0, wrapError("user", opInsert, err)
	}

	log.Info("user created successfully", slog.Int64("user_id", id))
	return id, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET name = $1, email = $2, address = $3, phone_number = $4, driving_license_number = $5,
			user_type = $6, modified_by = $7, modified_on = $8
		WHERE id = $9`

	result, err := s.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.Address,
		user.PhoneNumber,
		user.DrivingLicenseNumber,
		user.UserType,
		user.ModifiedBy,
		user.ModifiedOn,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("email already exists during user update", slog.Int64("user_id", user.ID))
			return store.NewStoreError("user", opUpdate, "unique constraint violated", MapUniqueViolation(err, store.ErrEmailExists))
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return wrapError("user", opUpdate, err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for update", slog.Int64("user_id", user.ID))
		return err
	}

	log.Info("user updated successfully", slog.Int64("user_id", user.ID))
	return nil
}

// UpdatePassword implements store.UserStore.UpdatePassword
func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1 WHERE id = $2`, hashedPassword, id)
	if err != nil {
		log.Error("failed to update user password",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return wrapError("user", opUpdate, err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for password update", slog.Int64("user_id", id))
		return err
	}

	log.Info("user password updated successfully", slog.Int64("user_id", id))
	return nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return wrapError("user", opDelete, err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for delete", slog.Int64("user_id", id))
		return err
	}

	log.Info("user deleted successfully", slog.Int64("user_id", id))
	return nil
}
