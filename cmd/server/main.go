package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/adapter/repository/memory"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/adapter/repository/postgres"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/adapter/repository/sqlite"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/adapter/rest"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/config"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/logging"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/observability"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/usecase/finalize"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/usecase/ingest"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/usecase/status"
)

func main() {
	// .env is optional; deployments usually set real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)

	repo, closeStore, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open transaction store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()
	logger.Info("transaction store ready", "driver", cfg.Store.Driver)

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	worker := finalize.NewWorker(repo, logger, metrics, finalize.Config{
		Workers:         cfg.Worker.Workers,
		QueueSize:       cfg.Worker.QueueSize,
		SettlementDelay: cfg.Worker.SettlementDelay,
	})
	worker.Start()

	ingestSvc := ingest.NewService(repo, worker, logger, metrics)
	statusSvc := status.NewService(repo)

	handlers := rest.NewHandlers(logger, ingestSvc, statusSvc)
	router := rest.NewRouter(logger, metrics, cfg.HTTP.MetricsEnabled, handlers)
	server := rest.New(logger, cfg.HTTP, router)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, cfg.HTTP.ShutdownTimeout, server, worker)
}

func openStore(cfg config.StoreConfig) (domain.TransactionRepository, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.PostgresConnString())
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTransactionRepository(db), db.Close, nil
	case config.DriverSQLite:
		return sqlite.NewTransactionRepository(cfg.SQLitePath)
	case config.DriverMemory:
		return memory.NewTransactionRepository(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// waitForShutdown waits for SIGTERM or SIGINT, drains the HTTP server and
// stops the finalization pool. Jobs still inside their settlement delay are
// abandoned and their records stay PROCESSING.
func waitForShutdown(logger *slog.Logger, timeout time.Duration, server *rest.Server, worker *finalize.Worker) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("received signal, shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}

	worker.Stop()
	logger.Info("shutdown complete")
}
