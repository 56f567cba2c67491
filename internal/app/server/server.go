package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/domain/payroll"
	"folha/internal/domain/records"
	"folha/internal/domain/settings"
	"folha/internal/domain/tax"
	"folha/internal/platform/config"
	cryptoutil "folha/internal/platform/crypto"
	"folha/internal/platform/db"
	"folha/internal/platform/logger"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	audithandler "folha/internal/transport/http/handlers/audit"
	authhandler "folha/internal/transport/http/handlers/auth"
	financehandler "folha/internal/transport/http/handlers/finance"
	payrollhandler "folha/internal/transport/http/handlers/payroll"
	recordshandler "folha/internal/transport/http/handlers/records"
	settingshandler "folha/internal/transport/http/handlers/settings"
	"folha/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Store   records.StoreAPI
	Metrics *metrics.Collector
	Router  http.Handler
}

// New wires the store, tables, rates and routes for cfg. The caller owns the
// returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, trail, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Store: store, Metrics: metrics.New()}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	tables, err := tax.LoadTables(cfg.TaxTablesPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("tax tables: %w", err)
	}
	rates := settings.NewFileStore(cfg.RatesConfigPath)
	if _, err := rates.Reload(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("rates: %w", err)
	}

	var operator *auth.Operator
	if cfg.AuthEnabled {
		operator, err = auth.NewOperator(cfg.AdminEmail, cfg.AdminPassword, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("operator: %w", err)
		}
		operator.RequireTOTP(cfg.AdminTOTPSecret)
	}

	manager := records.NewManager(store, crypto)
	app.Router = app.routes(manager, payroll.NewService(manager, tables), rates, tables, operator, audit.New(trail))

	slog.Info("application ready",
		"backend", cfg.DataBackend,
		"taxTables", tables.Name,
		"cbs", rates.Rates().CBS.String(),
		"ibs", rates.Rates().IBS.String(),
		"auth", cfg.AuthEnabled,
		"encryption", crypto.Configured(),
	)
	return app, nil
}

// openStores connects the configured backend. Records and the audit trail
// share one connection pool.
func openStores(ctx context.Context, cfg config.Config) (records.StoreAPI, audit.Store, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect failed: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.MigratePostgres(pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return records.NewPostgresStore(pool), audit.NewPostgresStore(pool), nil
	default:
		if cfg.RunMigrations {
			if err := db.MigrateSQLite(cfg.SQLitePath); err != nil {
				return nil, nil, err
			}
		}
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return records.NewSQLiteStore(conn), audit.NewSQLiteStore(conn), nil
	}
}

func (a *App) routes(manager *records.Manager, payrollService *payroll.Service, rates *settings.FileStore, tables tax.Tables, operator *auth.Operator, trail *audit.Service) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if operator != nil {
		router.Use(middleware.Auth(operator.Secret()))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Store.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		if operator != nil {
			authHandler := authhandler.NewHandler(operator)
			r.With(middleware.LoginRateLimit(10, time.Minute)).Post("/auth/login", authHandler.HandleLogin)
			r.With(middleware.RequireOperator).Get("/auth/me", authHandler.HandleMe)
		}

		r.Group(func(r chi.Router) {
			if operator != nil {
				r.Use(middleware.RequireOperator)
			}
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

			recordshandler.NewHandler(manager, trail).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollService, a.Metrics).RegisterRoutes(r)
			financehandler.NewHandler(manager, rates, a.Metrics).RegisterRoutes(r)
			settingshandler.NewHandler(rates, tables, trail).RegisterRoutes(r)
			audithandler.NewHandler(trail).RegisterRoutes(r)
		})
	})

	return router
}

func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run() error {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("store close failed", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("folha server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
