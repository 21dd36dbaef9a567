package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionStore_InvalidURL(t *testing.T) {
	_, err := NewSessionStore(context.Background(), "http://not-redis", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "karent:session:abc-123", sessionKey("abc-123"))
}

func unreachableStore() *SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewSessionStoreFromClient(client, nil)
}

func TestSessionStore_ConnectionErrors(t *testing.T) {
	s := unreachableStore()
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	err := s.Track(ctx, "jti", 1, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store session")

	active, err := s.Active(ctx, "jti")
	require.Error(t, err)
	assert.False(t, active)

	err = s.Revoke(ctx, "jti")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete session")
}

func TestSessionStore_TrackRejectsNonPositiveTTL(t *testing.T) {
	s := unreachableStore()
	defer func() { _ = s.Close() }()

	err := s.Track(context.Background(), "jti", 1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl must be positive")
}
