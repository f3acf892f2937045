package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"forecast-api/internal/config"
	"forecast-api/internal/handlers"
	"forecast-api/internal/repository"
	"forecast-api/internal/services"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the WeatherForecast HTTP API.

Configuration is read from .env, then the YAML file given by --config or
FORECAST_CONFIG (default config.yaml), then environment overrides. The YAML
file is watched and the log level is re-applied when it changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to the YAML config file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveConfigPath != "" {
		if err := os.Setenv("FORECAST_CONFIG", serveConfigPath); err != nil {
			return err
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Validate has already checked these.
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	strategy, _ := repository.ParseIdentityStrategy(cfg.Store.IdentityStrategy)
	deleteMode, _ := services.ParseDeleteMode(cfg.Store.DeleteMode)

	logger := logging.NewStructuredLogger(serviceName, version, level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "[STARTUP] Starting forecast API server", logging.Fields{
		"version":           version,
		"server_host":       cfg.Server.Host,
		"server_port":       cfg.Server.Port,
		"config_path":       cfg.Path,
		"identity_strategy": string(strategy),
		"delete_mode":       string(deleteMode),
		"docs_enabled":      cfg.Docs.Enabled,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsCollector := metrics.NewCollector("forecast_api", registry)

	repo := repository.NewForecastRepository(repository.Options{IdentityStrategy: strategy}, logger)
	service := services.NewForecastService(repo, deleteMode, logger, metricsCollector)

	router := handlers.NewRouter(service, logger, metricsCollector, handlers.RouterOptions{
		DocsEnabled:    cfg.Docs.Enabled,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "[SHUTDOWN] Shutting down server...", logging.Fields{})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
			return err
		}
		return nil
	})

	if cfg.Path != "" {
		g.Go(func() error {
			return config.Watch(gctx, cfg.Path, logger, reloadHandler(gctx, cfg, logger, metricsCollector))
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(context.Background(), "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
	return nil
}

// reloadHandler applies the hot-reloadable parts of a new config. Store and
// server settings only take effect on restart.
func reloadHandler(ctx context.Context, current *config.Config, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) config.ReloadFunc {
	return func(next *config.Config, err error) {
		if err != nil {
			metricsCollector.RecordConfigReload("error")
			return
		}
		metricsCollector.RecordConfigReload("success")

		if level, err := logging.ParseLevel(next.Logging.Level); err == nil && level != logger.Level() {
			logger.SetLevel(level)
			logger.Info(ctx, "[CONFIG_APPLIED] Log level changed", logging.Fields{
				"level": level.String(),
			})
		}

		if next.Store != current.Store || next.Server != current.Server || next.Docs != current.Docs {
			logger.Warn(ctx, "[CONFIG_RESTART_REQUIRED] Server, store and docs settings apply on restart", logging.Fields{
				"path": next.Path,
			})
		}
	}
}
