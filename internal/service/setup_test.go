package service

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
)

type testEnv struct {
	groups      api.GroupServiceClient
	settlements api.SettlementServiceClient
	currencies  api.CurrencyServiceClient
	jwt         *auth.JWTManager
}

// setupTestServer serves every service over httptest, backed by a temporary
// SQLite database, with the same interceptors as the real server.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	conv, err := currency.NewConverter(currency.DefaultRates(), "USD")
	if err != nil {
		t.Fatalf("failed to create converter: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New()

	authed := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(m))
	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(m))

	mux := http.NewServeMux()
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, conv), authed))
	mux.Handle(api.NewSettlementServiceHandler(NewSettlementService(
		settlement.NewPlanner(store, conv, m),
		settlement.NewManager(store, conv, m),
	), authed))
	mux.Handle(api.NewCurrencyServiceHandler(NewCurrencyService(conv), public))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		groups:      api.NewGroupServiceClient(http.DefaultClient, server.URL),
		settlements: api.NewSettlementServiceClient(http.DefaultClient, server.URL),
		currencies:  api.NewCurrencyServiceClient(http.DefaultClient, server.URL),
		jwt:         jwtManager,
	}
}

// as wraps msg in a request authenticated as memberID.
func as[T any](t *testing.T, env *testEnv, memberID string, msg *T) *connect.Request[T] {
	t.Helper()
	token, err := env.jwt.Generate(memberID, "", memberID+"@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// named is like as but carries a display name in the token.
func named[T any](t *testing.T, env *testEnv, memberID, name string, msg *T) *connect.Request[T] {
	t.Helper()
	token, err := env.jwt.Generate(memberID, name, "")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("code = %v, want %v (err: %v)", got, want, err)
	}
}
