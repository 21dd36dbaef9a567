package auth

import (
	"context"
	"time"
)

// SessionStore tracks login sessions by Claims.SessionKey so the tokens of a
// session can be revoked together.
// A nil SessionStore disables tracking; tokens are then valid until they expire.
type SessionStore interface {
	// Track records an issued token for ttl.
	Track(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error

	// Active reports whether the token is still tracked.
	Active(ctx context.Context, tokenID string) (bool, error)

	// Revoke forgets the token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, tokenID string) error
}
