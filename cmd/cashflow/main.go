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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cashflow/internal/auth"
	"cashflow/internal/backend"
	"cashflow/internal/config"
	apphttp "cashflow/internal/http"
	"cashflow/internal/insights"
	applog "cashflow/internal/log"
	"cashflow/internal/metrics"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			applog.FieldBackend, cfg.DataBackend, applog.FieldError, err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err)
			}
		}()
	}

	opts := apphttp.Options{
		Metrics: metrics.NewCollector("cashflow"),
	}

	// Only the hosted store is gated.
	if backendCfg.Type == backend.PostgresBackend {
		opts.Verifier = auth.NewVerifier([]byte(cfg.AuthSecret), cfg.AuthIssuer)
		logger.Info("Token verification enabled", "issuer", cfg.AuthIssuer)
	}

	if cfg.InsightsAPIKey != "" {
		opts.Analyzer = insights.NewAnalyzer(insights.Config{
			APIKey:    cfg.InsightsAPIKey,
			BaseURL:   cfg.InsightsBaseURL,
			Model:     cfg.InsightsModel,
			MaxTokens: cfg.InsightsMaxTokens,
		})
		logger.Info("Insights enabled")
	}

	srv := apphttp.NewServer(":"+cfg.Port, result.Store, opts)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting cashflow server",
			"port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
