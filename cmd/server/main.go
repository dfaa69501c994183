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

	"storefront-be/internal/api"
	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/idempotency"
	"storefront-be/internal/invoice"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/queue"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 15 * time.Second
	redisDialTimeout  = 3 * time.Second
	readHeaderTimeout = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogFile)
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.L().Warn("JWT_SECRET is empty, every token will be rejected")
	}

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, cleanup := newServer(ctx, cfg, database)
	defer cleanup()

	addr := ":" + cfg.AppPort
	logger.L().Info("http server listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(addr, handler)
}

// newServer wires repositories, services and transport. The returned cleanup
// releases the queue client and redis connection.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, func()) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var closers []func()

	queueClient := queue.NewClient(queue.Options{
		Enabled:       cfg.QueueEnabled,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	closers = append(closers, func() { _ = queueClient.Close() })

	cartSvc := cart.NewService(cart.NewRepository(database))
	orderSvc := order.NewService(order.NewRepository(database, cfg.TxTimeout))
	paymentSvc := payment.NewService(payment.NewRepository(database, cfg.TxTimeout), queueClient)
	invoiceSvc := invoice.NewService(invoice.NewRepository(database, cfg.TxTimeout, cfg.InvoiceBaseURL))

	m := metrics.New("api")

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	var store idempotency.Store
	if cfg.RedisEnabled {
		dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		client, err := idempotency.Connect(dialCtx, idempotency.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cancel()
		if err != nil {
			logger.L().Warn("redis unavailable, idempotency keys disabled", zap.Error(err))
		} else {
			store = idempotency.NewRedisStore(client, cfg.RedisPrefix)
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	h := api.NewHandler(cartSvc, orderSvc, paymentSvc, invoiceSvc, m)
	router := api.NewRouter(h, api.RouterOptions{
		JWTSecret:      []byte(cfg.JWTSecret),
		DB:             database,
		Metrics:        m,
		Limiter:        limiter,
		Idempotency:    store,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	return router, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// serve blocks until the listener fails or SIGINT/SIGTERM arrives, then
// drains in-flight requests.
func serve(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
