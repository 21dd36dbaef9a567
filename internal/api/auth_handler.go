package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/phrazzld/karent-api/internal/service/auth"
)

// AuthHandler handles login, token refresh and logout.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	sessions   auth.SessionStore
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthHandler creates a new AuthHandler. sessions may be nil when
// server-side session tracking is disabled.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	sessions auth.SessionStore,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		sessions:   sessions,
		logger:     logger.With(slog.String("component", "auth_handler")),
		now:        time.Now,
	}
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res := h.users.Login(r.Context(), req.Email, req.Password)
	if !res.Succeeded() {
		if res.Status == service.StatusUnauthorized {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, res.Message,
				errors.New("login rejected"), shared.WithElevatedLogLevel())
			return
		}
		respondResult(w, r, res)
		return
	}

	tokens, err := h.issueTokens(r.Context(), res.Data)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	tokens.User = res.Data

	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("user logged in", slog.Int64("user_id", res.Data.ID))
	shared.RespondWithEnvelope(w, r, http.StatusOK, service.MsgLoginSuccessful, tokens)
}

// Refresh handles POST /api/user/refresh, exchanging a valid refresh token
// for a new token pair. The user is reloaded so role changes take effect.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRefreshToken),
			errors.Is(err, auth.ErrExpiredRefreshToken),
			errors.Is(err, auth.ErrWrongTokenType):
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err,
				shared.WithElevatedLogLevel())
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to refresh token", err)
		}
		return
	}

	if h.sessions != nil {
		active, err := h.sessions.Active(r.Context(), claims.SessionKey())
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to refresh token", err)
			return
		}
		if !active {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token",
				auth.ErrSessionRevoked, shared.WithElevatedLogLevel())
			return
		}
		// rotation: the presented refresh token is single use
		if err := h.sessions.Revoke(r.Context(), claims.SessionKey()); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to refresh token", err)
			return
		}
	}

	res := h.users.Get(r.Context(), claims.UserID)
	if !res.Succeeded() {
		if res.Status == service.StatusInternalError {
			respondResult(w, r, res)
			return
		}
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	tokens, err := h.issueTokens(r.Context(), res.Data)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, "Token refreshed.", tokens)
}

// Logout handles POST /api/user/logout. It revokes the caller's session,
// which invalidates the access and refresh token issued with it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	if h.sessions != nil && p.SessionID != "" {
		if err := h.sessions.Revoke(r.Context(), p.SessionID); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
			return
		}
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, "Logged out.", nil)
}

// issueTokens signs an access/refresh pair for user under a fresh session ID
// and, when sessions are tracked, records the session until the refresh
// token expires.
func (h *AuthHandler) issueTokens(ctx context.Context, user *domain.User) (*LoginResponse, error) {
	subject := auth.Subject{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.UserType,
		SessionID: uuid.NewString(),
	}

	accessToken, err := h.jwtService.GenerateToken(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	accessClaims, err := h.jwtService.ValidateToken(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read issued access token: %w", err)
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if h.sessions != nil {
		refreshClaims, err := h.jwtService.ValidateRefreshToken(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to read issued refresh token: %w", err)
		}
		if err := h.sessions.Track(ctx, refreshClaims.SessionKey(), user.ID, refreshClaims.TTL(h.now())); err != nil {
			return nil, fmt.Errorf("failed to track session: %w", err)
		}
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessClaims.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}
