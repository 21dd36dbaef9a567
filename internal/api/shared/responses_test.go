package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/karent-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracedRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), TraceIDKey, "test-trace-id")
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	var logBuf strings.Builder
	log := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"f": func() {}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logBuf.String(), "failed to encode JSON response")
}

func TestRespondWithEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	RespondWithEnvelope(w, tracedRequest(), http.StatusCreated, "Car data successfully inserted",
		map[string]any{"id": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{
		"data": {"id": 3},
		"message": "Car data successfully inserted",
		"status_code": 201,
		"trace_id": "test-trace-id"
	}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name      string
		req       *http.Request
		wantTrace string
	}{
		{name: "with trace id", req: tracedRequest(), wantTrace: "test-trace-id"},
		{name: "without trace id", req: httptest.NewRequest(http.MethodGet, "/test", nil)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondWithError(w, tc.req, http.StatusBadRequest, "Invalid request")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var env Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Nil(t, env.Data)
			assert.Equal(t, "Invalid request", env.Message)
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
			assert.Equal(t, tc.wantTrace, env.TraceID)
		})
	}
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name             string
		statusCode       int
		err              error
		elevate          bool
		expectedLogLevel string
	}{
		{
			name:             "server error",
			statusCode:       http.StatusInternalServerError,
			err:              errors.New("dial tcp: postgres://admin:hunter2@db:5432/karent refused"),
			expectedLogLevel: "ERROR",
		},
		{
			name:             "client error default level",
			statusCode:       http.StatusBadRequest,
			err:              errors.New("invalid input"),
			expectedLogLevel: "DEBUG",
		},
		{
			name:             "client error elevated",
			statusCode:       http.StatusUnauthorized,
			err:              errors.New("bad token"),
			elevate:          true,
			expectedLogLevel: "WARN",
		},
		{
			name:             "rate limited",
			statusCode:       http.StatusTooManyRequests,
			err:              errors.New("slow down"),
			expectedLogLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var logBuf strings.Builder
			log := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			req := tracedRequest()
			req = req.WithContext(logger.WithLogger(req.Context(), log))
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.statusCode, "Something failed", tc.err, opts...)

			assert.Equal(t, tc.statusCode, w.Code)
			assert.NotContains(t, w.Body.String(), tc.err.Error(), "raw error must not reach the client")

			var env Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, "Something failed", env.Message)
			assert.Equal(t, "test-trace-id", env.TraceID)

			out := logBuf.String()
			assert.Contains(t, out, "level="+tc.expectedLogLevel)
			assert.Contains(t, out, "trace_id=test-trace-id")
			assert.Contains(t, out, "error_type=")
			assert.NotContains(t, out, "hunter2")
		})
	}
}
