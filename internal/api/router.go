package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"storefront-be/internal/idempotency"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type RouterOptions struct {
	JWTSecret      []byte
	DB             *sql.DB
	Metrics        *metrics.Metrics
	Limiter        *middleware.RateLimiter
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(
		logger.RequestID(),
		logger.AccessLog(),
		recovery(),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.GET("/health", health(opts.DB))
	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(opts.JWTSecret))
	if opts.Limiter != nil {
		v1.Use(opts.Limiter.Middleware())
	}

	cartGroup := v1.Group("/cart")
	cartGroup.GET("", h.GetCart)
	cartGroup.POST("/add", h.AddToCart)
	cartGroup.PUT("/update", h.UpdateCartItem)
	cartGroup.DELETE("/item/:cart_id", h.RemoveCartItem)
	cartGroup.DELETE("/clear", h.ClearCart)

	orders := v1.Group("/orders")
	orders.POST("", idempotency.Middleware(opts.Idempotency, opts.IdempotencyTTL), h.PlaceOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:order_id", h.GetOrder)

	payments := v1.Group("/payments")
	payments.POST("/initiate", h.InitiatePayment)
	payments.PUT("/:payment_id/status", h.UpdatePaymentStatus)
	payments.GET("/order/:order_id", h.GetOrderPayments)

	invoices := v1.Group("/invoices")
	invoices.POST("/generate", h.GenerateInvoice)
	invoices.GET("/order/:order_id", h.GetInvoiceByOrder)

	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.GET("/orders", h.AdminListOrders)
	admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)
	admin.GET("/payments", h.AdminListPayments)
	admin.PATCH("/payments/:id/refund", h.AdminRefundPayment)
	admin.GET("/invoices/order/:order_id", h.AdminGetInvoice)
	admin.POST("/invoices/order/:order_id/reissue", h.AdminReissueInvoice)

	return r
}

func health(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.FromCtx(ctx).Warn("health check failed", zap.Error(err))
				response.Abort(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
				return
			}
		}
		response.OK(c, "OK", gin.H{"status": "ok"})
	}
}

// recovery turns a handler panic into a 500 envelope.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromCtx(c.Request.Context()).Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		response.Abort(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	})
}
