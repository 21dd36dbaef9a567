package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/phrazzld/karent-api/internal/redact"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/phrazzld/karent-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	sessions   auth.SessionStore
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. sessions may be nil, in
// which case tokens are trusted until they expire.
func NewAuthMiddleware(jwtService auth.JWTService, sessions auth.SessionStore, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate rejects requests without a valid access token. Accepted
// requests carry the caller as a shared.Principal and as the service actor.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}
		m.serveAuthenticated(w, r, next)
	})
}

// Optional authenticates the request when it carries an Authorization header
// and passes anonymous requests through untouched.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.serveAuthenticated(w, r, next)
	})
}

func (m *AuthMiddleware) serveAuthenticated(w http.ResponseWriter, r *http.Request, next http.Handler) {
	log := logger.FromContextOrDefault(r.Context(), m.logger)

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
		return
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrTokenNotYetValid),
			errors.Is(err, auth.ErrWrongTokenType):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		default:
			log.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return
	}

	if m.sessions != nil {
		active, err := m.sessions.Active(r.Context(), claims.SessionKey())
		if err != nil {
			log.Error("failed to check session", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if !active {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Session has ended",
				auth.ErrSessionRevoked, shared.WithElevatedLogLevel())
			return
		}
	}

	principal := shared.Principal{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		SessionID: claims.SessionKey(),
	}
	ctx := shared.SetPrincipal(r.Context(), principal)
	ctx = service.WithActorID(ctx, claims.UserID)
	ctx = logger.WithLogger(ctx, log.With(slog.Int64("user_id", claims.UserID)))

	next.ServeHTTP(w, r.WithContext(ctx))
}

// RequireRole rejects authenticated callers whose role differs from role.
// It must run after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := shared.GetPrincipal(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			if p.Role != role {
				shared.RespondWithError(w, r, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
