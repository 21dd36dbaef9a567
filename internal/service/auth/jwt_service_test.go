package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/karent-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	testSubject = Subject{UserID: 42, Email: "admin@karent.test", Role: "admin"}
)

func newTestService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:                   testSecret,
		Issuer:                      "karent-api",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}, now)
	require.NoError(t, err)
	return svc
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), testSubject)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin@karent.test", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Hour, claims.TTL(fixedTime))
	assert.Equal(t, claims.ID, claims.SessionKey(), "tokens without a session fall back to jti")
}

func TestSessionIDSharedByTokenPair(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, fixedClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))
	subject := testSubject
	subject.SessionID = "session-1"

	access, err := svc.GenerateToken(context.Background(), subject)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(context.Background(), subject)
	require.NoError(t, err)

	accessClaims, err := svc.ValidateToken(context.Background(), access)
	require.NoError(t, err)
	refreshClaims, err := svc.ValidateRefreshToken(context.Background(), refresh)
	require.NoError(t, err)

	assert.NotEqual(t, accessClaims.ID, refreshClaims.ID)
	assert.Equal(t, "session-1", accessClaims.SessionKey())
	assert.Equal(t, "session-1", refreshClaims.SessionKey())
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, fixedClock(fixedTime))

	tests := []struct {
		name    string
		token   func() string
		checker *hmacJWTService
		wantErr error
	}{
		{
			name: "expired token",
			token: func() string {
				tok, _ := issuer.GenerateToken(context.Background(), testSubject)
				return tok
			},
			checker: newTestService(t, fixedClock(fixedTime.Add(2*time.Hour))),
			wantErr: ErrExpiredToken,
		},
		{
			name: "wrong signature",
			token: func() string {
				other, _ := newHMACJWTService(config.AuthConfig{
					JWTSecret:            "another-secret-that-is-long-enough-too",
					Issuer:               "karent-api",
					TokenLifetimeMinutes: 60,
				}, fixedClock(fixedTime))
				tok, _ := other.GenerateToken(context.Background(), testSubject)
				return tok
			},
			checker: issuer,
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token used as access token",
			token: func() string {
				tok, _ := issuer.GenerateRefreshToken(context.Background(), testSubject)
				return tok
			},
			checker: issuer,
			wantErr: ErrWrongTokenType,
		},
		{
			name:    "malformed token",
			token:   func() string { return "not.a.jwt" },
			checker: issuer,
			wantErr: ErrInvalidToken,
		},
		{
			name: "none algorithm",
			token: func() string {
				tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{UserID: 1, TokenType: TokenTypeAccess})
				s, _ := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return s
			},
			checker: issuer,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.checker.ValidateToken(context.Background(), tt.token())
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, fixedClock(fixedTime))

	refresh, err := svc.GenerateRefreshToken(context.Background(), testSubject)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, fixedTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	access, err := svc.GenerateToken(context.Background(), testSubject)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	later := newTestService(t, fixedClock(fixedTime.Add(48*time.Hour)))
	_, err = later.ValidateRefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestTokensHaveUniqueIDs(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now)
	a, err := svc.GenerateToken(context.Background(), testSubject)
	require.NoError(t, err)
	b, err := svc.GenerateToken(context.Background(), testSubject)
	require.NoError(t, err)

	ca, err := svc.ValidateToken(context.Background(), a)
	require.NoError(t, err)
	cb, err := svc.ValidateToken(context.Background(), b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}
