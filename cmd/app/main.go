package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thunder-recargas/internal/config"
	"thunder-recargas/internal/ghstore"
	"thunder-recargas/internal/handlers"
	"thunder-recargas/internal/httpserver"
	"thunder-recargas/internal/keepalive"
	"thunder-recargas/internal/logging"
	"thunder-recargas/internal/metrics"
	"thunder-recargas/internal/repo"
	"thunder-recargas/internal/siteconfig"
	"thunder-recargas/migrations"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting thunder-recargas", "backend", cfg.StoreBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry(cfg.MetricsNamespace)

	// A failed store connection does not abort startup: the service runs in a
	// degraded mode where the config default is served and writes answer 503.
	var store repo.Store
	switch cfg.StoreBackend {
	case "github":
		store = ghstore.New(ghstore.Config{
			Token:  cfg.GitHubToken,
			Repo:   cfg.GitHubRepo,
			Branch: cfg.GitHubBranch,
		}, logger, metricRegistry)
		logger.Info("using github contents fallback store", "repo", cfg.GitHubRepo)
	default:
		pg, err := repo.NewPostgres(ctx, cfg.DatabaseURL, cfg.SupabaseSchema, logger, metricRegistry)
		if err != nil {
			logger.Error("database connection failed, running disconnected", "error", err)
			break
		}
		if err := pg.RunMigrations(ctx, migrations.Files); err != nil {
			pg.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrated")
		store = pg
	}
	if store != nil {
		defer store.Close()
	}

	// The cache tolerates a nil querier, which marks the store as
	// permanently disconnected.
	var querier siteconfig.Querier
	if store != nil {
		querier = store
	}
	configCache := siteconfig.New(querier, logger, metricRegistry)

	api := handlers.New(store, configCache, logger, metricRegistry, cfg.AdminPassword)
	server := httpserver.New(fmt.Sprintf(":%d", cfg.Port), api, logger, metricRegistry)

	go keepalive.Run(ctx, store, cfg.KeepAliveInterval, logger, metricRegistry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
