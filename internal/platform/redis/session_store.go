// Package redis tracks issued access tokens in Redis so they can be revoked
// before they expire.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "karent:session:"

// SessionStore implements auth.SessionStore with one key per token id whose
// value is the owning user id and whose TTL matches the token lifetime.
type SessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore connects to the Redis server at redisURL and pings it.
func NewSessionStore(ctx context.Context, redisURL string, logger *slog.Logger) (*SessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewSessionStoreFromClient(client, logger), nil
}

// NewSessionStoreFromClient wraps an existing client.
func NewSessionStoreFromClient(client *redis.Client, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		client: client,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Close releases the underlying connection pool.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func sessionKey(tokenID string) string {
	return keyPrefix + tokenID
}

// Track implements auth.SessionStore.Track
func (s *SessionStore) Track(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	if err := s.client.Set(ctx, sessionKey(tokenID), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		log.Error("failed to store session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to store session: %w", err)
	}

	log.Debug("session tracked", slog.Int64("user_id", userID), slog.Duration("ttl", ttl))
	return nil
}

// Active implements auth.SessionStore.Active
func (s *SessionStore) Active(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, sessionKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get session: %w", err)
	}
	return true, nil
}

// Revoke implements auth.SessionStore.Revoke
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Debug("session revoked")
	return nil
}
