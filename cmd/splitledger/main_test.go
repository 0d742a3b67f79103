package main

import (
	"bytes"
	"context"
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

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWatchCommand(t *testing.T) {
	t.Setenv("AMQP_URL", "")
	_, err := runCLI(t, "watch")
	assert.ErrorContains(t, err, "AMQP_URL is required")
}

func TestPrintEvent(t *testing.T) {
	var out bytes.Buffer
	handle := printEvent(&out)

	err := handle(context.Background(), events.Event{
		Type:       events.SettlementRecorded,
		EntityID:   "s1",
		ActorID:    "bob",
		Amount:     decimal.RequireFromString("4"),
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"2026-03-01T12:00:00Z  settlement.recorded  household=-  id=s1  actor=bob  amount=4.00\n",
		out.String())
}

func TestSplitCommand(t *testing.T) {
	t.Run("even", func(t *testing.T) {
		out, err := runCLI(t, "split", "even", "--amount", "10.01", "alice", "bob", "carol")
		require.NoError(t, err)
		assert.Contains(t, out, "alice  3.33")
		assert.Contains(t, out, "carol  3.35")
		assert.Contains(t, out, "total  10.01")
	})

	t.Run("custom", func(t *testing.T) {
		out, err := runCLI(t, "split", "custom", "--amount", "30", "alice=15.555", "bob=14.445")
		require.NoError(t, err)
		assert.Contains(t, out, "alice  15.56")
		assert.Contains(t, out, "bob    14.45")
	})

	t.Run("custom mismatch", func(t *testing.T) {
		_, err := runCLI(t, "split", "custom", "--amount", "30", "alice=15", "bob=10")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "custom split total (25.00) does not match expense amount (30.00)")
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := runCLI(t, "split", "even", "--amount", "ten", "alice")
		assert.Error(t, err)
		_, err = runCLI(t, "split", "custom", "--amount", "10", "alice")
		assert.Error(t, err)
	})
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "cli.db")
	t.Setenv("DB_PATH", dbPath)

	out, err := runCLI(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	// Running again is a no-op.
	_, err = runCLI(t, "migrate")
	require.NoError(t, err)
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	_, err := runCLI(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestServer(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	registry := prometheus.NewRegistry()
	handler := newServer(serverDeps{
		store:      store,
		jwtManager: auth.NewJWTManager("server-test-secret-123", time.Hour),
		publisher:  events.NopPublisher{},
		metrics:    middleware.NewMetrics(registry),
		gatherer:   registry,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		corsOrigin: "https://app.example.com",
		bcryptCost: bcrypt.MinCost,
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, server.URL+apiconnect.AuthServiceLoginProcedure, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("rpc and metrics", func(t *testing.T) {
		client := apiconnect.NewAuthServiceClient(server.Client(), server.URL)
		_, err := client.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
			Email:       "alice@example.com",
			DisplayName: "Alice",
			Password:    "password123",
		}))
		require.NoError(t, err)

		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), `splitledger_rpc_requests_total{code="ok",procedure="/splitledger.v1.AuthService/Register"} 1`)
	})

	t.Run("plain JSON over HTTP", func(t *testing.T) {
		resp, err := http.Post(server.URL+apiconnect.ExpenseServicePreviewSplitProcedure, "application/json",
			bytes.NewBufferString(`{"amount":"10.01","participants":["a","b","c"]}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "PreviewSplit needs a session")
	})
}
