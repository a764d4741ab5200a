// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

// Command api is the entry point for the Lektura HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize the token verifier and identity-provider client.
//  7. Establish the service account session.
//  8. Wire HTTP handlers.
//  9. Start HTTP server with graceful shutdown.
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

	"github.com/lekturahq/lektura/internal/admin"
	"github.com/lekturahq/lektura/internal/api"
	"github.com/lekturahq/lektura/internal/core/book"
	"github.com/lekturahq/lektura/internal/core/readinglist"
	"github.com/lekturahq/lektura/internal/core/recommend"
	"github.com/lekturahq/lektura/internal/core/review"
	"github.com/lekturahq/lektura/internal/platform/config"
	"github.com/lekturahq/lektura/internal/platform/constants"
	"github.com/lekturahq/lektura/internal/platform/idp"
	"github.com/lekturahq/lektura/internal/platform/migration"
	pgstore "github.com/lekturahq/lektura/internal/platform/postgres"
	redisstore "github.com/lekturahq/lektura/internal/platform/redis"
	"github.com/lekturahq/lektura/internal/platform/sec"
	"github.com/lekturahq/lektura/internal/users/auth"
	"github.com/lekturahq/lektura/internal/users/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Lektura] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity Provider ──────────────────────────────────────────────
	verifier, err := sec.NewVerifier(cfg.IdPPublicKeyPath)
	must(log, err, "load identity provider public key")

	idpClient := idp.NewClient(cfg.IdPBaseURL)

	// ── 7. Service Account Session ────────────────────────────────────────
	// The resolver owns the service's own session with the provider; the
	// admin metrics depend on it. A failed sign-in is not fatal: the session
	// resolves anonymous and the user-count metric reports unavailable.
	resolver := session.NewResolver(session.NewIdPProvider(idpClient), log)

	sessionCtx, sessionCancel := context.WithTimeout(startupCtx, constants.SessionResolveTimeout)
	if cfg.ServiceAccountEmail != "" {
		if err := resolver.SignIn(sessionCtx, cfg.ServiceAccountEmail, cfg.ServiceAccountPassword); err != nil {
			log.Warn("service account sign-in failed", slog.Any("error", err))
		}
	} else {
		resolver.Resolve(sessionCtx)
		log.Warn("no service account configured; admin user metrics unavailable")
	}
	sessionCancel()

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(idpClient, auth.NewRedisProfileCache(rdb), log)
	authHandler := auth.NewHandler(authService)

	bookRepository := book.NewPostgresRepository(pool)
	bookService := book.NewService(bookRepository, log)
	bookHandler := book.NewHandler(bookService)

	listRepository := readinglist.NewPostgresRepository(pool)
	listService := readinglist.NewService(listRepository, log)
	listHandler := readinglist.NewHandler(listService)

	reviewRepository := review.NewPostgresRepository(pool)
	reviewService := review.NewService(reviewRepository, log)
	reviewHandler := review.NewHandler(reviewService)

	llmClient := recommend.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	recommendService := recommend.NewService(llmClient, log)
	recommendHandler := recommend.NewHandler(recommendService)

	adminService := admin.NewService(resolver, idpClient, listRepository, log)
	adminHandler := admin.NewHandler(adminService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        authHandler,
		Book:        bookHandler,
		ReadingList: listHandler,
		Review:      reviewHandler,
		Recommend:   recommendHandler,
		Admin:       adminHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Revoke the service account session before the process exits.
	signOutCtx, signOutCancel := context.WithTimeout(context.Background(), constants.SessionResolveTimeout)
	if err := resolver.SignOut(signOutCtx); err != nil {
		log.Warn("service account sign-out failed", slog.Any("error", err))
	}
	signOutCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
