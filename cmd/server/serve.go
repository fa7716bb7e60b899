package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/billbook/internal/auth"
	"github.com/mmynk/billbook/internal/cache"
	"github.com/mmynk/billbook/internal/config"
	"github.com/mmynk/billbook/internal/jobs"
	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/middleware"
	"github.com/mmynk/billbook/internal/server"
	"github.com/mmynk/billbook/internal/service"
	"github.com/mmynk/billbook/internal/storage"
	"github.com/mmynk/billbook/internal/storage/postgres"
	"github.com/mmynk/billbook/internal/storage/sqlite"
	"github.com/mmynk/billbook/internal/web"
	"github.com/mmynk/billbook/pkg/logging"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting billbook",
		"version", version,
		"env", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"session_store", cfg.SessionStore,
	)
	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("Using the default session secret; set SESSION_SECRET outside development")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, store)
	if err != nil {
		store.Close()
		return err
	}

	scheme, err := auth.ParseScheme(cfg.PasswordScheme)
	if err != nil {
		closeSessions()
		store.Close()
		return err
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var metricsHandler *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		metricsHandler = metrics.NewPrometheus()
		recorder = metricsHandler
	}

	sessions := auth.NewSessionManager(sessionStore, store, auth.NewJWTManager(cfg.SessionSecret), cfg.SessionTTL)
	accounts := service.NewAccountService(auth.NewPasswordAuthenticator(store, scheme), sessions, recorder)
	groups := service.NewGroupService(store, recorder)
	bills := service.NewBillService(store, recorder)

	handler := web.NewHandler(accounts, groups, bills, store, recorder, logger, cfg.IsProduction())
	routerCfg := web.RouterConfig{
		Sessions:           sessions,
		Metrics:            recorder,
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		TrustProxy:         cfg.TrustProxy,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		LoginRateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.LoginRateLimitRPS,
			Burst:             cfg.LoginRateLimitBurst,
		},
	}
	if metricsHandler != nil {
		routerCfg.MetricsHandler = metricsHandler.Handler()
	}

	sweeper := jobs.NewSessionSweeper(sessions, cfg.SessionSweepSchedule, recorder, logger)

	srv := server.New(web.NewRouter(handler, routerCfg), server.Config{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		H2C:             cfg.H2CEnabled,
	}, logger)

	// Shutdown runs last-registered first: the sweeper stops before the
	// stores it writes to are closed.
	srv.OnShutdown("store", func(context.Context) error { return store.Close() })
	srv.OnShutdown("session store", func(context.Context) error { return closeSessions() })

	if err := sweeper.Start(); err != nil {
		closeSessions()
		store.Close()
		return err
	}
	srv.OnShutdown("session sweeper", sweeper.Stop)

	return srv.Run(ctx)
}

// openStore connects to the configured database, applying migrations.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.DBDriver {
	case "postgres":
		store, err = postgres.New(ctx, cfg.DatabaseURL)
	default:
		store, err = sqlite.New(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.DBDriver, err)
	}
	slog.Info("Storage initialized", "driver", cfg.DBDriver)
	return store, nil
}

// openSessionStore returns where sessions live and how to release it. The
// database store is closed separately, so its release func is a no-op.
func openSessionStore(ctx context.Context, cfg *config.Config, store storage.Store) (storage.SessionStore, func() error, error) {
	if cfg.SessionStore != "redis" {
		return store, func() error { return nil }, nil
	}

	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Sessions stored in redis")
	return c, c.Close, nil
}
