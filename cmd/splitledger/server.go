package main

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type serverDeps struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	publisher  events.Publisher
	metrics    *middleware.Metrics
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	corsOrigin string

	// bcryptCost overrides bcrypt.DefaultCost when non-zero.
	bcryptCost int
}

// newServer mounts the Connect services, /health and /metrics.
func newServer(d serverDeps) http.Handler {
	authenticator := auth.NewPasswordAuthenticator(d.store)
	if d.bcryptCost != 0 {
		authenticator = authenticator.WithCost(d.bcryptCost)
	}

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(d.logger),
		d.metrics.Interceptor(),
		middleware.RequireAuth(d.jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, d.jwtManager, d.store, d.logger), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(
		service.NewExpenseService(d.store, d.publisher, d.metrics), interceptors))
	mux.Handle(apiconnect.NewHouseholdServiceHandler(
		service.NewHouseholdService(d.store, d.publisher), interceptors))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))

	return requestLogger(d.logger, cors(d.corsOrigin, mux))
}

// requestLogger logs every HTTP request at debug level; RPCs are also
// logged by the Connect interceptor.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// cors adds CORS headers for browser access.
func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
