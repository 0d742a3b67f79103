package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type testEnv struct {
	auth       apiconnect.AuthServiceClient
	expenses   apiconnect.ExpenseServiceClient
	households apiconnect.HouseholdServiceClient
	events     *events.Recorder
	store      *sqlite.SQLiteStore
}

// testUser is a registered account and its session token.
type testUser struct {
	ID    string
	Token string
}

// setupTestServer serves all three services from a temp-file SQLite store,
// behind the same interceptors the server uses.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	recorder := &events.Recorder{}
	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, recorder, metrics), interceptors))
	mux.Handle(apiconnect.NewHouseholdServiceHandler(NewHouseholdService(store, recorder), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:       apiconnect.NewAuthServiceClient(server.Client(), server.URL),
		expenses:   apiconnect.NewExpenseServiceClient(server.Client(), server.URL),
		households: apiconnect.NewHouseholdServiceClient(server.Client(), server.URL),
		events:     recorder,
		store:      store,
	}
}

func (e *testEnv) register(t *testing.T, name string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password123",
	}))
	require.NoError(t, err)
	return testUser{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

// household creates a household owned by owner and joins the other users to it.
func (e *testEnv) household(t *testing.T, autoSplit bool, owner testUser, others ...testUser) *api.Household {
	t.Helper()
	ctx := context.Background()

	resp, err := e.households.CreateHousehold(ctx, as(owner, &api.CreateHouseholdRequest{Name: "Flat", AutoSplit: autoSplit}))
	require.NoError(t, err)
	household := resp.Msg.Household

	for _, u := range others {
		joined, err := e.households.JoinHousehold(ctx, as(u, &api.JoinHouseholdRequest{InviteCode: household.InviteCode}))
		require.NoError(t, err)
		household = joined.Msg.Household
	}
	return household
}

// as builds a request authenticated as u.
func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr), "not a connect error: %v", err)
	assert.Equal(t, want, connectErr.Code(), "message: %s", connectErr.Message())
}
