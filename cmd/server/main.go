// Package main is the entrypoint for the GHL telecom middleware server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/handler"
	mw "github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/middleware"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/cache"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/config"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/ghl"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/routing"
	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/store"
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
	// 1. Load config, failing fast when invalid
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the persistence backend
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Optional Redis (rate limiting + health)
	var redisCache *cache.RedisCache
	var rateLimit *mw.RateLimit
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		rateLimit = mw.NewRateLimit(redisCache, cfg.Redis.RequestsPerMinute)
		slog.Info("redis connected")
	} else {
		slog.Warn("REDIS_URL not set, rate limiting disabled")
	}

	// 4. Routing engine
	forwarder := ghl.NewHTTPClient(cfg.GHL.ForwardTimeout, !cfg.Production())
	router := routing.NewService(st, forwarder, cfg.GHL.ForwardTimeout, slog.Default())

	// 5. Build HTTP router with dependencies
	deps := api.Dependencies{
		AdminAuth: mw.NewAdminAuth(cfg.Admin.Secret),
		RateLimit: rateLimit,

		RootHandler:   rootHandler(),
		HealthHandler: healthHandler(st, redisCache),

		GHLWebhookHandler:   handler.NewGHLWebhookHandler(router),
		VodiaNewCallHandler: handler.NewVodiaNewCallHandler(router),

		UpsertSubaccountHandler: handler.NewUpsertSubaccountHandler(st),
		ListSubaccountsHandler:  handler.NewListSubaccountsHandler(st),
		CallReportHandler:       handler.NewCallReportHandler(st),
		ContactReportHandler:    handler.NewContactReportHandler(st),
	}

	// 6. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openStore connects the Postgres backend when DATABASE_URL is set, and
// otherwise falls back to the embedded SQLite database.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database connected", "backend", "postgres")
		return store.NewPostgresStore(pool), pool.Close, nil
	}

	st, err := store.OpenSQLite(ctx, cfg.Database.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite database: %w", err)
	}
	slog.Info("database connected", "backend", "sqlite", "path", cfg.Database.SQLitePath)
	return st, func() { st.Close() }, nil
}

// rootHandler serves the plain-text liveness marker.
func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "Middleware running")
	}
}

// healthHandler checks database (and cache, when configured) connectivity.
func healthHandler(s store.Store, c *cache.RedisCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if c != nil {
			checks["cache"] = "ok"
			if err := c.Ping(r.Context()); err != nil {
				checks["cache"] = "degraded"
			}
		}

		for _, status := range checks {
			if status != "ok" {
				response.Error(w, http.StatusServiceUnavailable, "degraded",
					"One or more services degraded")
				return
			}
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
