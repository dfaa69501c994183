package worker

import (
	"context"
	"encoding/json"
	"errors"

	"storefront-be/internal/invoice"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Consumer struct {
	invoices invoice.Service
	metrics  *metrics.Metrics
}

func NewConsumer(invoices invoice.Service, m *metrics.Metrics) *Consumer {
	return &Consumer{invoices: invoices, metrics: m}
}

func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		return
	}
	mux.HandleFunc(queue.TaskInvoiceGenerate, c.handleInvoiceGenerate)
}

// handleInvoiceGenerate succeeds when the invoice already exists. Outcomes
// that a retry cannot change are dropped rather than retried.
func (c *Consumer) handleInvoiceGenerate(ctx context.Context, task *asynq.Task) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "worker"),
		zap.String("task", queue.TaskInvoiceGenerate),
	)

	var payload queue.InvoiceGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Warn("failed to unmarshal payload", zap.Error(err))
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID <= 0 || payload.UserID <= 0 {
		log.Warn("skipping invalid payload",
			zap.Int64("order_id", payload.OrderID),
			zap.Int64("user_id", payload.UserID),
		)
		return nil
	}

	log = log.With(zap.Int64("order_id", payload.OrderID))

	inv, err := c.invoices.GenerateInvoice(ctx, payload.UserID, payload.OrderID)
	switch {
	case err == nil:
		c.metrics.InvoiceGenerated("worker")
		log.Info("invoice generated", zap.String("invoice_number", inv.InvoiceNumber))
		return nil
	case errors.Is(err, invoice.ErrInvoiceAlreadyExists):
		log.Debug("invoice already exists")
		return nil
	case errors.Is(err, invoice.ErrOrderNotFound), errors.Is(err, invoice.ErrPaymentNotCompleted):
		// refunded or superseded between enqueue and now
		log.Info("skipping invoice", zap.Error(err))
		return nil
	default:
		log.Warn("failed to generate invoice", zap.Error(err))
		return err
	}
}
