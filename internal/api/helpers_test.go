package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/karent-api/internal/api"
	"github.com/phrazzld/karent-api/internal/api/middleware"
	"github.com/phrazzld/karent-api/internal/config"
	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/mocks"
	"github.com/phrazzld/karent-api/internal/service"
	"github.com/phrazzld/karent-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@karent.id"
	adminPassword = "adminpass1"
	budiPassword  = "budipass1"
)

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code"`
	TraceID    string          `json:"trace_id"`
}

// testAPI is the full router backed by in-memory stores.
type testAPI struct {
	router   http.Handler
	mem      *mocks.Memory
	jwt      auth.JWTService
	sessions *mocks.MemorySessionStore

	adminID int64
	budiID  int64
	sitiID  int64
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := discardLogger()
	mem := mocks.NewMemory()
	hasher := &mocks.MockPasswordHasher{}

	cars, err := service.NewCarService(mem.TxRunner(), mem.CarStore(), mem.RentalStore(), log)
	require.NoError(t, err)
	users, err := service.NewUserService(mem.TxRunner(), mem.UserStore(), mem.RentalStore(), hasher, log)
	require.NoError(t, err)
	rentals, err := service.NewRentalService(mem.TxRunner(), mem.RentalStore(), mem.CarStore(),
		mem.UserStore(), mem.RentalReturnStore(), log)
	require.NoError(t, err)
	returns, err := service.NewRentalReturnService(mem.TxRunner(), mem.RentalReturnStore(),
		mem.RentalStore(), mem.CarStore(), log)
	require.NoError(t, err)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   strings.Repeat("k", 32),
		Issuer:                      "karent-test",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)
	sessions := mocks.NewMemorySessionStore()
	authMW := middleware.NewAuthMiddleware(jwtService, sessions, log)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Method(http.MethodGet, "/health", api.NewHealthHandler(nil, log))
	api.Mount(r, api.Handlers{
		Auth:          api.NewAuthHandler(users, jwtService, sessions, log),
		Cars:          api.NewCarHandler(cars, log),
		Users:         api.NewUserHandler(users, log),
		Rentals:       api.NewRentalHandler(rentals, log),
		RentalReturns: api.NewRentalReturnHandler(returns, log),
	}, authMW)

	a := &testAPI{router: r, mem: mem, jwt: jwtService, sessions: sessions}
	a.adminID = mem.SeedUser(domain.User{
		Name: "Admin", Email: adminEmail, HashedPassword: "hashed:" + adminPassword,
		UserType: domain.UserTypeAdmin,
	})
	a.budiID = mem.SeedUser(domain.User{
		Name: "Budi", Email: "budi@example.com", HashedPassword: "hashed:" + budiPassword,
		UserType: domain.UserTypeCustomer,
	})
	a.sitiID = mem.SeedUser(domain.User{
		Name: "Siti", Email: "siti@example.com", HashedPassword: "hashed:sitipass1",
		UserType: domain.UserTypeCustomer,
	})
	return a
}

// token issues a tracked access token without going through login.
func (a *testAPI) token(t *testing.T, userID int64, role string) string {
	t.Helper()
	ctx := context.Background()
	tok, err := a.jwt.GenerateToken(ctx, auth.Subject{UserID: userID, Email: "x@example.com", Role: role})
	require.NoError(t, err)
	claims, err := a.jwt.ValidateToken(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, a.sessions.Track(ctx, claims.ID, userID, claims.TTL(claims.IssuedAt)))
	return tok
}

func (a *testAPI) admin(t *testing.T) string { return a.token(t, a.adminID, domain.UserTypeAdmin) }
func (a *testAPI) budi(t *testing.T) string  { return a.token(t, a.budiID, domain.UserTypeCustomer) }
func (a *testAPI) siti(t *testing.T) string  { return a.token(t, a.sitiID, domain.UserTypeCustomer) }

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// createCar adds a car through the API as admin and returns its id.
func (a *testAPI) createCar(t *testing.T, brand, model string, year int) int64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/car", a.admin(t), map[string]any{
		"brand": brand, "model": model, "year": year,
		"plate_number": "B 1 KRN", "rental_rate_per_day": 300, "late_rate_per_day": 50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var car domain.Car
	decodeData(t, rec, &car)
	return car.ID
}

// createRental books carID for userID as admin and returns the rental id.
func (a *testAPI) createRental(t *testing.T, userID, carID int64, start, end string) int64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/rental", a.admin(t), map[string]any{
		"user_id": userID, "car_id": carID, "start_date": start, "end_date": end, "total_fee": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var rental domain.Rental
	decodeData(t, rec, &rental)
	return rental.ID
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, rec.Code, env.StatusCode, "body status_code must match the HTTP status")
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}
