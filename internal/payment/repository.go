package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/money"
	"storefront-be/internal/order"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, params CreatePaymentParams) (*CreatePaymentResult, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) (*StatusUpdateResult, error)
	ListByOrder(ctx context.Context, userID, orderID int64) ([]*Payment, error)
	ListAll(ctx context.Context) ([]*Payment, error)
}

type repository struct {
	db        *sql.DB
	txTimeout time.Duration
}

func NewRepository(db *sql.DB, txTimeout time.Duration) Repository {
	return &repository{db: db, txTimeout: txTimeout}
}

const paymentColumns = `
	payment_id, order_id, payment_method, amount, currency, status,
	COALESCE(transaction_id, ''), COALESCE(gateway_response, ''),
	created_at, updated_at`

// Create opens a new pending payment for an owned, unpaid order. Older
// pending attempts on the same order are superseded so at most one payment
// is in flight.
func (r *repository) Create(ctx context.Context, params CreatePaymentParams) (*CreatePaymentResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreatePayment"),
		zap.Int64("order_id", params.OrderID),
	)

	var result *CreatePaymentResult
	err := db.WithTx(ctx, r.db, r.txTimeout, func(tx *sql.Tx) error {
		var (
			total         money.Money
			paymentStatus order.PaymentStatus
		)
		err := tx.QueryRowContext(ctx, `
			SELECT total_amount, payment_status
			FROM orders
			WHERE order_id = $1 AND user_id = $2
			FOR UPDATE
		`, params.OrderID, params.UserID).Scan(&total, &paymentStatus)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			log.Error("failed to lock order", zap.Error(err))
			return err
		}
		if paymentStatus == order.PaymentStatusPaid {
			return ErrOrderAlreadyPaid
		}

		superseded, err := tx.ExecContext(ctx, `
			UPDATE payments
			SET status = $1, updated_at = NOW()
			WHERE order_id = $2 AND status = $3
		`, StatusCancelled, params.OrderID, StatusPending)
		if err != nil {
			log.Error("failed to supersede pending payments", zap.Error(err))
			return err
		}
		if n, _ := superseded.RowsAffected(); n > 0 {
			log.Info("superseded pending payments", zap.Int64("count", n))
		}

		res := &CreatePaymentResult{
			OrderID: params.OrderID,
			Amount:  total,
			Status:  StatusPending,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO payments (order_id, payment_method, amount, status)
			VALUES ($1, $2, $3, $4)
			RETURNING payment_id, currency
		`, params.OrderID, params.PaymentMethod, total, StatusPending).Scan(&res.PaymentID, &res.Currency)
		if err != nil {
			log.Error("failed to insert payment", zap.Error(err))
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET payment_status = $1, updated_at = NOW()
			WHERE order_id = $2
		`, order.PaymentStatusPending, params.OrderID); err != nil {
			log.Error("failed to mark order payment pending", zap.Error(err))
			return err
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("payment created", zap.Int64("payment_id", result.PaymentID))
	return result, nil
}

// UpdateStatus applies a gateway callback and rederives the order's payment
// status. The order row is locked before the payment row, the same order
// Create uses.
func (r *repository) UpdateStatus(ctx context.Context, update StatusUpdate) (*StatusUpdateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdatePaymentStatus"),
		zap.Int64("payment_id", update.PaymentID),
		zap.String("status", string(update.Status)),
	)

	var result *StatusUpdateResult
	err := db.WithTx(ctx, r.db, r.txTimeout, func(tx *sql.Tx) error {
		var orderID int64
		err := tx.QueryRowContext(ctx, `
			SELECT order_id FROM payments WHERE payment_id = $1
		`, update.PaymentID).Scan(&orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPaymentNotFound
		}
		if err != nil {
			log.Error("failed to get payment", zap.Error(err))
			return err
		}

		var userID int64
		if err := tx.QueryRowContext(ctx, `
			SELECT user_id FROM orders WHERE order_id = $1 FOR UPDATE
		`, orderID).Scan(&userID); err != nil {
			log.Error("failed to lock order", zap.Int64("order_id", orderID), zap.Error(err))
			return err
		}

		p := &Payment{}
		err = tx.QueryRowContext(ctx, `
			UPDATE payments
			SET status = $1,
			    transaction_id = NULLIF($2, ''),
			    gateway_response = NULLIF($3, ''),
			    updated_at = NOW()
			WHERE payment_id = $4
			RETURNING`+paymentColumns,
			update.Status, update.TransactionID, update.GatewayResponse, update.PaymentID,
		).Scan(
			&p.ID,
			&p.OrderID,
			&p.PaymentMethod,
			&p.Amount,
			&p.Currency,
			&p.Status,
			&p.TransactionID,
			&p.GatewayResponse,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to update payment", zap.Error(err))
			return err
		}

		if update.Status == StatusPending {
			// a pending callback on a superseded attempt makes it the one in flight
			superseded, err := tx.ExecContext(ctx, `
				UPDATE payments
				SET status = $1, updated_at = NOW()
				WHERE order_id = $2 AND status = $3 AND payment_id <> $4
			`, StatusCancelled, orderID, StatusPending, update.PaymentID)
			if err != nil {
				log.Error("failed to supersede pending payments", zap.Error(err))
				return err
			}
			if n, _ := superseded.RowsAffected(); n > 0 {
				log.Info("superseded pending payments", zap.Int64("count", n))
			}
		}

		derived := update.Status.OrderPaymentStatus()
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET payment_status = $1, updated_at = NOW()
			WHERE order_id = $2
		`, derived, orderID); err != nil {
			log.Error("failed to update order payment status", zap.Error(err))
			return err
		}

		result = &StatusUpdateResult{Payment: p, UserID: userID, OrderPaymentStatus: derived}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("payment status updated", zap.String("order_payment_status", string(result.OrderPaymentStatus)))
	return result, nil
}

// ListByOrder returns an empty list when the order belongs to someone else.
func (r *repository) ListByOrder(ctx context.Context, userID, orderID int64) ([]*Payment, error) {
	return r.list(ctx, `
		SELECT
			p.payment_id, p.order_id, p.payment_method, p.amount, p.currency, p.status,
			COALESCE(p.transaction_id, ''), COALESCE(p.gateway_response, ''),
			p.created_at, p.updated_at
		FROM payments p
		JOIN orders o ON o.order_id = p.order_id
		WHERE p.order_id = $1 AND o.user_id = $2
		ORDER BY p.created_at DESC, p.payment_id DESC
	`, orderID, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Payment, error) {
	return r.list(ctx, `
		SELECT`+paymentColumns+`
		FROM payments
		ORDER BY created_at DESC, payment_id DESC
	`)
}

func (r *repository) list(ctx context.Context, query string, args ...interface{}) ([]*Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list payments",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	payments := make([]*Payment, 0)
	for rows.Next() {
		p := &Payment{}
		if err := rows.Scan(
			&p.ID,
			&p.OrderID,
			&p.PaymentMethod,
			&p.Amount,
			&p.Currency,
			&p.Status,
			&p.TransactionID,
			&p.GatewayResponse,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
