// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the farmer registry admin server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis for the session store.
//  5. Wire services, screens and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/farmreg/internal/api"
	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/dashboard"
	"github.com/taibuivan/farmreg/internal/farmer"
	"github.com/taibuivan/farmreg/internal/platform/config"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/kvstore"
	"github.com/taibuivan/farmreg/internal/platform/migration"
	pgstore "github.com/taibuivan/farmreg/internal/platform/postgres"
	redisstore "github.com/taibuivan/farmreg/internal/platform/redis"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/account"
	"github.com/taibuivan/farmreg/internal/users/auth"
)

// screenCacheSize bounds the dashboard screens kept in memory.
const screenCacheSize = 1024

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug || cfg.IsDevelopment() {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("simulate_updates", cfg.SimulateUpdates),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, os.DirFS(cfg.MigrationPath), log), "run migrations")

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "configure redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Sessions & Identity ────────────────────────────────────────────
	profileTTL := time.Duration(constants.ProfileCookieMaxAge) * time.Second
	provider, err := auth.NewProvider(kvstore.NewRedisBackend(rdb, profileTTL, cfg.SessionTTL), cfg.SessionCacheSize, log)
	must(log, err, "initialize session provider")

	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, jwtSvc)
	accountService := account.NewService(userRepository, account.NewAuditRepository(pool), log)

	// ── 6. Registry & Screens ─────────────────────────────────────────────
	profileLoader := farmer.NewRepositoryLoader(farmer.NewRepository(pool), farmer.NewStaticLoader())
	farmerService := farmer.NewService(farmer.NewRepository(pool), profileLoader)

	screens, err := dashboard.NewScreens(screenCacheSize, updaterFactory(cfg, accountService), dashboard.ScreenOptions{
		CloseDelay:        cfg.CloseDelay,
		ToastDuration:     cfg.ToastDuration,
		StrictComposition: cfg.PasswordStrictComposition,
	})
	must(log, err, "initialize dashboard screens")
	defer screens.Purge()

	// ── 7. Health ─────────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckSessionStore: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Sessions:  provider.Sessions(cfg.CookiesSecure()),
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService, cfg.PasswordStrictComposition),
		Farmer:    farmer.NewHandler(farmerService),
		Dashboard: dashboard.NewHandler(screens, profileLoader, nil),
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// updaterFactory picks the system of record behind every credential form.
func updaterFactory(cfg *config.Config, accountService *account.Service) dashboard.UpdaterFactory {
	if cfg.SimulateUpdates {
		simulated := credential.NewSimulatedUpdater(cfg.SimulatedDelay)
		return func(auth.UserRecord) credential.Updater { return simulated }
	}
	return func(user auth.UserRecord) credential.Updater {
		return accountService.Updater(user.ID, account.SyncSession)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
