package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/platform/logger"
)

// pathID returns the integer path parameter name. Malformed values yield 0,
// which every service rejects with its own "Invalid <Entity> ID" result.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// filterParam reads the listing filter from the /filter/{filter} path
// segment, falling back to the ?filter= query parameter.
func filterParam(r *http.Request) string {
	if f := chi.URLParam(r, "filter"); f != "" {
		return strings.TrimSpace(f)
	}
	return strings.TrimSpace(r.URL.Query().Get("filter"))
}

// requirePrincipal returns the authenticated caller or writes a 401.
func requirePrincipal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (shared.Principal, bool) {
	p, ok := shared.GetPrincipal(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), log).Warn("principal missing from authenticated route")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user ID.")
		return shared.Principal{}, false
	}
	return p, true
}

// decodeAndValidate reads the JSON body into v and checks its struct tags,
// writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		respondBadRequest(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		respondBadRequest(w, r, err)
		return false
	}
	return true
}
