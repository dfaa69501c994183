package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/invoice"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/queue"
	"storefront-be/internal/worker"

	"go.uber.org/zap"
)

const metricsShutdownTimeout = 5 * time.Second

var initDBFunc = db.InitDB

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("worker exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogFile)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	svc, m, err := newWorker(cfg, database)
	if err != nil {
		return err
	}

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error("worker metrics server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Start() }()
	logger.L().Info("worker started",
		zap.String("queue", queue.DefaultQueue),
		zap.Int("concurrency", cfg.QueueConcurrency),
	)

	select {
	case err = <-errCh:
	case <-ctx.Done():
		logger.L().Info("shutting down worker")
		svc.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	return err
}

func newWorker(cfg *config.Config, database *sql.DB) (*worker.Service, *metrics.Metrics, error) {
	m := metrics.New("worker")
	invoiceSvc := invoice.NewService(invoice.NewRepository(database, cfg.TxTimeout, cfg.InvoiceBaseURL))

	svc, err := worker.NewService(queue.Options{
		Enabled:       cfg.QueueEnabled,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		Concurrency:   cfg.QueueConcurrency,
	}, worker.NewConsumer(invoiceSvc, m))
	if err != nil {
		return nil, nil, err
	}
	return svc, m, nil
}
