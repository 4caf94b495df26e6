// Package main is the entrypoint for the FieldScope API server.
package main

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

	"github.com/fieldscope/fieldscope/internal/api"
	"github.com/fieldscope/fieldscope/internal/api/handler"
	mw "github.com/fieldscope/fieldscope/internal/api/middleware"
	"github.com/fieldscope/fieldscope/internal/api/response"
	"github.com/fieldscope/fieldscope/internal/cache"
	"github.com/fieldscope/fieldscope/internal/compliance"
	"github.com/fieldscope/fieldscope/internal/config"
	"github.com/fieldscope/fieldscope/internal/fsm"
	"github.com/fieldscope/fieldscope/internal/store"
	"github.com/fieldscope/fieldscope/pkg/vocab"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "fsm_provider", cfg.FSM.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Load status vocabulary
	statusVocab := vocab.Default()
	if cfg.Report.VocabFile != "" {
		statusVocab, err = vocab.LoadFile(cfg.Report.VocabFile)
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}
	}
	slog.Info("status vocabulary loaded", "labels", statusVocab.Len())

	// 6. Create FSM client
	fsmClient, err := fsm.NewClient(cfg.FSM)
	if err != nil {
		return fmt.Errorf("create FSM client: %w", err)
	}
	slog.Info("FSM client initialized", "provider", fsmClient.Name())

	// 7. Create store and report service
	pgStore := store.NewPostgresStore(pool)

	scoring := compliance.ScoringConfig{
		GraceDays:  cfg.Scoring.GraceDays,
		ShrinkageC: cfg.Scoring.ShrinkageC,
		MinJobs:    cfg.Scoring.MinJobs,
	}
	reportSvc := compliance.NewService(fsmClient, pgStore, redisCache, statusVocab, scoring, cfg.Report.CacheTTL)

	// 8. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler:        healthHandler(pgStore, redisCache, fsmClient),
		ReportHandler:        handler.NewReportHandler(reportSvc),
		ExportHandler:        handler.NewExportHandler(reportSvc),
		ListSnapshotsHandler: handler.NewListSnapshotsHandler(pgStore),
		GetSnapshotHandler:   handler.NewGetSnapshotHandler(pgStore),
		CreateKeyHandler:     handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:      handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler:     handler.NewRevokeKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database, cache, and FSM platform connectivity.
func healthHandler(s store.Store, c cache.Cache, f fsm.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
			"fsm":      "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}
		if err := f.Ready(r.Context()); err != nil {
			checks["fsm"] = "degraded"
		}

		degraded := false
		for _, status := range checks {
			if status != "ok" {
				degraded = true
			}
		}
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
