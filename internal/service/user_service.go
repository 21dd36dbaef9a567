package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/redact"
	"github.com/phrazzld/karent-api/internal/service/auth"
	"github.com/phrazzld/karent-api/internal/store"
)

// UserService manages staff and customer accounts. Users leaving the
// service always have both password fields cleared.
type UserService interface {
	// List returns users whose name or email contains filter, ignoring case.
	List(ctx context.Context, filter string) Result[[]domain.User]

	// Get returns one user.
	Get(ctx context.Context, id int64) Result[*domain.User]

	// Create validates a new user, hashes the password and stores it.
	Create(ctx context.Context, user *domain.User) Result[*domain.User]

	// Update overwrites the profile of an existing user. A non-empty
	// Password replaces the stored hash.
	Update(ctx context.Context, user *domain.User) Result[*domain.User]

	// Delete removes a user that no rental references.
	Delete(ctx context.Context, id int64) Result[int64]

	// Login verifies credentials. Unknown emails and wrong passwords
	// produce the same StatusUnauthorized result.
	Login(ctx context.Context, email, password string) Result[*domain.User]
}

// dummyHash is compared against when the email is unknown so both failure
// paths spend the same key-derivation time.
var dummyHash = base64.StdEncoding.EncodeToString(make([]byte, auth.PBKDF2SaltSize+auth.PBKDF2KeySize))

type userServiceImpl struct {
	txRunner store.TxRunner
	users    store.UserStore
	rentals  store.RentalStore
	hasher   auth.PasswordHasher
	logger   *slog.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	txRunner store.TxRunner,
	users store.UserStore,
	rentals store.RentalStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) (UserService, error) {
	if txRunner == nil {
		return nil, missingDependency("user", "txRunner")
	}
	if users == nil {
		return nil, missingDependency("user", "userStore")
	}
	if rentals == nil {
		return nil, missingDependency("user", "rentalStore")
	}
	if hasher == nil {
		return nil, missingDependency("user", "hasher")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		txRunner: txRunner,
		users:    users,
		rentals:  rentals,
		hasher:   hasher,
		logger:   logger.With(slog.String("component", "user_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// List implements UserService.List
func (s *userServiceImpl) List(ctx context.Context, filter string) Result[[]domain.User] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return outcome[[]domain.User](ctx, log, "list_users", userMessages, err)
	}
	if len(users) == 0 {
		return fail[[]domain.User](StatusNoContent, userMessages.noneFound())
	}
	for i := range users {
		users[i] = *users[i].Sanitized()
	}
	return success(users, userMessages.fetchedN(len(users)))
}

// Get implements UserService.Get
func (s *userServiceImpl) Get(ctx context.Context, id int64) Result[*domain.User] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[*domain.User](StatusBadRequest, userMessages.invalidID())
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return outcome[*domain.User](ctx, log, "get_user", userMessages, err)
	}
	return success(user.Sanitized(), userMessages.fetched())
}

// Create implements UserService.Create
func (s *userServiceImpl) Create(ctx context.Context, user *domain.User) Result[*domain.User] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user == nil {
		return fail[*domain.User](StatusBadRequest, userMessages.required())
	}
	u := *user
	u.ID = 0
	u.Normalize()
	if err := u.ValidateCreate(); err != nil {
		return outcome[*domain.User](ctx, log, "create_user", userMessages, err)
	}

	hash, err := s.hasher.Hash(u.Password)
	if err != nil {
		return outcome[*domain.User](ctx, log, "create_user", userMessages, err)
	}
	u.HashedPassword = hash
	u.Password = ""

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		dup, err := users.ExistsDuplicate(ctx, &u, 0)
		if err != nil {
			return err
		}
		if dup {
			return abort(StatusConflict, userMessages.duplicate())
		}

		u.StampCreated(ActorID(ctx), s.now())
		id, err := users.Insert(ctx, &u)
		if err != nil {
			return err
		}
		u.ID = id
		return nil
	})
	if err != nil {
		return outcome[*domain.User](ctx, log, "create_user", userMessages, err)
	}

	log.Info("user created", slog.Int64("user_id", u.ID))
	return created(u.Sanitized(), userMessages.inserted())
}

// Update implements UserService.Update
func (s *userServiceImpl) Update(ctx context.Context, user *domain.User) Result[*domain.User] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user == nil {
		return fail[*domain.User](StatusBadRequest, userMessages.required())
	}
	if user.ID <= 0 {
		return fail[*domain.User](StatusNotFound, userMessages.notFound())
	}
	u := *user

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		existing, err := users.FindByID(ctx, u.ID)
		if err != nil {
			return err
		}

		u.Normalize()
		if err := u.ValidateUpdate(); err != nil {
			return err
		}

		dup, err := users.ExistsDuplicate(ctx, &u, u.ID)
		if err != nil {
			return err
		}
		if dup {
			return abort(StatusConflict, userMessages.duplicate())
		}

		u.CreatedBy, u.CreatedOn = existing.CreatedBy, existing.CreatedOn
		u.StampModified(ActorID(ctx), s.now())
		if err := users.Update(ctx, &u); err != nil {
			return err
		}

		if u.Password == "" {
			return nil
		}
		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return err
		}
		return users.UpdatePassword(ctx, u.ID, hash)
	})
	if err != nil {
		return outcome[*domain.User](ctx, log, "update_user", userMessages, err)
	}

	log.Info("user updated", slog.Int64("user_id", u.ID))
	return success(u.Sanitized(), userMessages.updated())
}

// Delete implements UserService.Delete
func (s *userServiceImpl) Delete(ctx context.Context, id int64) Result[int64] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return fail[int64](StatusBadRequest, userMessages.invalidID())
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		if _, err := users.FindByID(ctx, id); err != nil {
			return err
		}

		inUse, err := s.rentals.WithTx(tx).ExistsForUser(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return abort(StatusConflict, userMessages.inUse())
		}

		return users.Delete(ctx, id)
	})
	if err != nil {
		return outcome[int64](ctx, log, "delete_user", userMessages, err)
	}

	log.Info("user deleted", slog.Int64("user_id", id))
	return success(id, userMessages.deleted())
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) Result[*domain.User] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return outcome[*domain.User](ctx, log, "login", userMessages, err)
		}
		_ = s.hasher.Compare(dummyHash, password)
		log.Debug("login attempt for unknown email")
		return fail[*domain.User](StatusUnauthorized, MsgInvalidCredentials)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrMalformedHash) {
			log.Warn("stored password hash is malformed",
				slog.Int64("user_id", user.ID),
				slog.String("error", redact.Error(err)))
		} else {
			log.Debug("login attempt with wrong password", slog.Int64("user_id", user.ID))
		}
		return fail[*domain.User](StatusUnauthorized, MsgInvalidCredentials)
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return success(user.Sanitized(), MsgLoginSuccessful)
}
