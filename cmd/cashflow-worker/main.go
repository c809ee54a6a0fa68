package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cashflow/internal/amqp"
	"cashflow/internal/config"
	applog "cashflow/internal/log"
	"cashflow/internal/remote"
	"cashflow/internal/storage"
	"cashflow/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting cashflow-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.PostgresDSN == "" {
		logger.Error("Postgres DSN is required for the sync worker")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Local store holding the pending queue.
	local, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer local.Close()

	// Remote store the pending rows are pushed to.
	remoteRepo, err := remote.NewPostgresRepository(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("Failed to initialize Postgres repository", applog.FieldError, err)
		os.Exit(1)
	}
	defer remoteRepo.Close()

	syncWorker := worker.NewSyncWorker(local, remoteRepo, cfg.SyncBatchSize)

	// Drain anything that accumulated while the worker was down.
	logger.Info("Performing startup sync check")
	if err := syncWorker.ProcessPending(ctx); err != nil {
		logger.Error("Startup sync check failed", applog.FieldError, err)
	}

	// AMQP consumption is optional; the periodic scan alone keeps the
	// stores converging, notifications just tighten the latency.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			if err := amqpClient.ConsumeTransactionSync(ctx, syncWorker.HandleSyncMessage); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("Message consumption failed", applog.FieldError, err)
				}
				cancel()
			}
		}()
		logger.Info("Consuming sync messages",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, relying on periodic sync only")
	}

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	logger.Info("Worker ready", "sync_interval", cfg.SyncInterval.String(),
		"batch_size", cfg.SyncBatchSize)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down worker")
			return
		case <-ticker.C:
			if err := syncWorker.ProcessPending(ctx); err != nil {
				logger.Error("Periodic sync failed", applog.FieldError, err)
			}
		}
	}
}
