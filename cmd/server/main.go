package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/sentireview/config"
	"github.com/spacesedan/sentireview/internal/clients"
	"github.com/spacesedan/sentireview/internal/handlers"
	"github.com/spacesedan/sentireview/internal/logging"
	"github.com/spacesedan/sentireview/internal/monitoring"
	"github.com/spacesedan/sentireview/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logging.InitLogger(level, !cfg.IsProduction())

	if err := run(cfg); err != nil {
		slog.Error("[Main] Server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzerOpts := []sentiment.Option{
		sentiment.WithMarkdownStripping(cfg.Sentiment.StripMarkdown),
	}
	serverOpts := []handlers.Option{
		handlers.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	}

	if cfg.CacheEnabled() {
		cacheHealthy := &atomic.Bool{}
		cache, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Address:  cfg.Valkey.Address,
			Password: cfg.Valkey.Password,
			UseTLS:   cfg.Valkey.TLS,
			TTL:      cfg.Valkey.CacheTTLDuration(),
			Healthy:  cacheHealthy,
		})
		if err != nil {
			slog.Warn("[Main] Score cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			defer cache.Close()

			cacheHealthy.Store(true)
			go monitoring.MonitorCacheHealth(ctx, cache, cacheHealthy, cfg.Valkey.HealthcheckIntervalDuration())

			analyzerOpts = append(analyzerOpts, sentiment.WithScoreCache(cache, cacheHealthy))
			serverOpts = append(serverOpts, handlers.WithCacheHealth(cacheHealthy))
		}
	}

	analyzer, err := sentiment.NewAnalyzer(analyzerOpts...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewServer(analyzer, serverOpts...).SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("[Main] Starting Sentiment Analysis API",
			slog.String("addr", cfg.Addr()),
			slog.String("endpoint", handlers.API_PREFIX+handlers.ANALYZE_REVIEW_PATH),
			slog.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("[Main] Server stopped")
	return nil
}
