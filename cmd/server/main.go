package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"votegate/internal/audit"
	"votegate/internal/biometric"
	"votegate/internal/ledger"
	"votegate/internal/operator"
	operatorhandler "votegate/internal/operator/handler"
	"votegate/internal/platform/config"
	"votegate/internal/platform/httpserver"
	"votegate/internal/platform/logger"
	platformredis "votegate/internal/platform/redis"
	httptransport "votegate/internal/transport/http"
	"votegate/internal/verification"
	verificationhandler "votegate/internal/verification/handler"
	verificationmetrics "votegate/internal/verification/metrics"
	"votegate/internal/voter"
	voterhandler "votegate/internal/voter/handler"
	votermetrics "votegate/internal/voter/metrics"
)

const auditInboxSize = 256

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		voterStore voter.Store
		auditStore audit.Store
		db         *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}

		pgVoters := voter.NewPostgresStore(db)
		if err := pgVoters.EnsureSchema(ctx); err != nil {
			log.Error("failed to prepare voter schema", "error", err)
			os.Exit(1)
		}
		pgAudit := audit.NewPostgresStore(db)
		if err := pgAudit.EnsureSchema(ctx); err != nil {
			log.Error("failed to prepare audit schema", "error", err)
			os.Exit(1)
		}
		voterStore, auditStore = pgVoters, pgAudit
		log.Info("using postgres storage")
	} else {
		voterStore, auditStore = voter.NewInMemoryStore(), audit.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	verifiedLedger, err := buildLedger(ctx, cfg, db, redisClient)
	if err != nil {
		log.Error("failed to build verification ledger", "error", err)
		os.Exit(1)
	}
	log.Info("verification ledger ready", "backend", cfg.LedgerBackend)

	var authenticator biometric.Authenticator
	switch cfg.BiometricMode {
	case config.BiometricHTTP:
		authenticator = biometric.NewHTTPAuthenticator(cfg.BiometricURL, cfg.BiometricTimeout)
		log.Info("using biometric bridge", "url", cfg.BiometricURL)
	default:
		authenticator = biometric.MockAuthenticator{}
		log.Warn("using mock biometric authenticator")
	}

	inbox := make(chan audit.Event, auditInboxSize)
	sink := audit.NewAsyncSink(inbox)
	auditWorker := audit.NewWorker(auditStore, inbox, log)

	voterOpts := []voter.Option{
		voter.WithLogger(log),
		voter.WithMetrics(votermetrics.New()),
		voter.WithAuditSink(sink),
	}
	if cfg.RequireEnrollment {
		voterOpts = append(voterOpts, voter.WithEnrollment(authenticator))
	}
	voters, err := voter.New(voterStore, voterOpts...)
	if err != nil {
		log.Error("failed to build voter service", "error", err)
		os.Exit(1)
	}

	flow, err := verification.New(voterStore, verifiedLedger, authenticator,
		verification.WithLogger(log),
		verification.WithMetrics(verificationmetrics.New()),
		verification.WithAuditSink(sink),
		verification.WithBiometricTimeout(cfg.BiometricTimeout),
	)
	if err != nil {
		log.Error("failed to build verification flow", "error", err)
		os.Exit(1)
	}

	jwtService := operator.NewJWTService(cfg.JWTSigningKey, "votegate", "votegate")
	operators, err := operator.New(jwtService, cfg.OperatorPasswordHash,
		operator.WithLogger(log),
		operator.WithAuditSink(sink),
	)
	if err != nil {
		log.Error("failed to build operator service", "error", err)
		os.Exit(1)
	}
	if !operators.Enabled() {
		log.Warn("OPERATOR_PASSWORD_HASH not set, operator auth disabled")
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Voters:       voterhandler.New(voters, log),
		Verification: verificationhandler.New(flow, log),
		Operator:     operatorhandler.New(operators, log),
		Validator:    operator.NewTokenValidatorAdapter(jwtService),
		AuthEnabled:  operators.Enabled(),
		Logger:       log,
		Health: func() error {
			if db != nil {
				if err := db.Ping(); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting votegate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func buildLedger(ctx context.Context, cfg config.Server, db *sql.DB, redisClient *platformredis.Client) (ledger.Ledger, error) {
	switch cfg.LedgerBackend {
	case config.LedgerPostgres:
		if db == nil {
			return nil, errors.New("postgres ledger requires DATABASE_URL")
		}
		pg := ledger.NewPostgresLedger(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	case config.LedgerRedis:
		if redisClient == nil {
			return nil, errors.New("redis ledger requires REDIS_URL")
		}
		return ledger.NewRedisLedger(redisClient.Client), nil
	default:
		return ledger.NewInMemoryLedger(), nil
	}
}
