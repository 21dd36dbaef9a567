package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/karent-api/internal/api/shared"
	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	var logBuf strings.Builder
	base := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	handler := NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/car", nil))

	assert.Len(t, traceID, 32)
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))
	assert.Contains(t, logBuf.String(), "request started")
	assert.Contains(t, logBuf.String(), "msg=\"inside handler\" trace_id="+traceID)
}
