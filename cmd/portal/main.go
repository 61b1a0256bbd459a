// Copyright (c) 2026 Promptix. All rights reserved.

// Command portal is the entry point for the Promptix portal agent.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the session provider and restore the persisted session.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/promptix/portal/internal/api"
	"github.com/promptix/portal/internal/platform/config"
	"github.com/promptix/portal/internal/platform/constants"
	"github.com/promptix/portal/internal/platform/migration"
	pgstore "github.com/promptix/portal/internal/platform/postgres"
	redisstore "github.com/promptix/portal/internal/platform/redis"
	"github.com/promptix/portal/internal/platform/sec"
	"github.com/promptix/portal/internal/portal"
	"github.com/promptix/portal/internal/users/directory"
	"github.com/promptix/portal/internal/users/employee"
	"github.com/promptix/portal/internal/users/session"
	"github.com/promptix/portal/internal/workspace/budget"
	"github.com/promptix/portal/internal/workspace/project"
	"github.com/promptix/portal/internal/workspace/request"
	"github.com/promptix/portal/internal/workspace/task"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("device_id", cfg.DeviceID),
	)

	// Startup deadline, so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown: provider subscription, rate limiter janitor.
	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session ────────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token service")

	directoryRepository := directory.NewPostgresRepository(pool)
	provider := session.NewRedisProvider(rdb, tokens, cfg.DeviceID, log)
	store := session.NewStore(
		provider,
		directoryRepository,
		directory.NewResolver(directoryRepository, cfg.ProfileResolveTimeout),
		log,
	)

	agent := portal.New(store)
	must(log, agent.Start(runCtx), "start session")
	defer agent.Close()

	go logSessionChanges(runCtx, agent, log)

	// ── 7. Handlers ───────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		SessionLoading: func() bool {
			return agent.Snapshot().Loading
		},
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Session:   portal.NewHandler(agent),
		Tasks:     task.NewHandler(task.NewService(task.NewPostgresRepository(pool), log)),
		Projects:  project.NewHandler(project.NewService(project.NewPostgresRepository(pool), log)),
		Requests:  request.NewHandler(request.NewService(request.NewPostgresRepository(pool), log)),
		Budgets:   budget.NewHandler(budget.NewService(budget.NewPostgresRepository(pool), log)),
		Employees: employee.NewHandler(employee.NewService(directoryRepository, log)),
	}

	server := api.NewServer(runCtx, cfg, log, tokens, agent, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

// logSessionChanges records every sign-in and sign-out the agent goes through.
func logSessionChanges(ctx context.Context, agent *portal.Portal, log *slog.Logger) {
	updates, stop := agent.Watch()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			if state.Loading {
				continue
			}
			if !state.SignedIn() {
				log.Info("session_state_signed_out")
				continue
			}
			log.Info("session_state_signed_in",
				slog.String("user_id", state.Profile.ID),
				slog.String("role", string(state.Profile.Role)),
				slog.Bool("is_admin", state.Profile.IsAdmin()),
			)
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// Only used during startup wiring.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
