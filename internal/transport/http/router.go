// Package httptransport assembles the HTTP surface. Handlers stay in their
// feature packages; this package only wires routes and middleware.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	operatorhandler "votegate/internal/operator/handler"
	verificationhandler "votegate/internal/verification/handler"
	voterhandler "votegate/internal/voter/handler"
	authmw "votegate/pkg/platform/middleware/auth"
	"votegate/pkg/platform/middleware/metadata"
	"votegate/pkg/platform/middleware/requestid"
	"votegate/pkg/platform/middleware/requesttime"
)

// RouterConfig collects everything the router needs. Guarded routes require a
// valid operator token only when AuthEnabled is set.
type RouterConfig struct {
	Voters       *voterhandler.Handler
	Verification *verificationhandler.Handler
	Operator     *operatorhandler.Handler
	Validator    authmw.TokenValidator
	AuthEnabled  bool
	Logger       *slog.Logger
	Health       func() error
}

// NewRouter wires all public endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())
	cfg.Operator.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireOperator(cfg.Validator, cfg.AuthEnabled, cfg.Logger))
		cfg.Voters.Register(r)
		cfg.Verification.Register(r)
	})

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
