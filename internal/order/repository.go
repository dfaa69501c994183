package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const maxNumberAttempts = 3

type Repository interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error)
	ListByUser(ctx context.Context, userID int64) ([]*OrderSummary, error)
	ListAll(ctx context.Context) ([]*OrderSummary, error)
	GetDetails(ctx context.Context, userID, orderID int64) (*OrderDetails, error)
	UpdateStatus(ctx context.Context, patch StatusPatch) error
}

type repository struct {
	db        *sql.DB
	txTimeout time.Duration
	now       func() time.Time
}

func NewRepository(db *sql.DB, txTimeout time.Duration) Repository {
	return &repository{db: db, txTimeout: txTimeout, now: time.Now}
}

// PlaceOrder converts the user's cart into an order in one transaction. The
// consumed cart rows stay locked until commit, so a concurrent checkout of the
// same cart waits and then sees an empty cart.
func (r *repository) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrder"),
		zap.Int64("user_id", params.UserID),
	)

	var result *PlaceOrderResult
	err := db.RetryOnUnique(maxNumberAttempts, orderNumberConstraint, func() error {
		var err error
		result, err = r.placeOrderOnce(ctx, log, params)
		if db.IsUniqueViolation(err, orderNumberConstraint) {
			log.Warn("order number collision, retrying")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("order placed",
		zap.Int64("order_id", result.OrderID),
		zap.String("order_number", result.OrderNumber),
		zap.String("total_amount", result.TotalAmount.String()),
	)
	return result, nil
}

func (r *repository) placeOrderOnce(ctx context.Context, log *zap.Logger, params PlaceOrderParams) (*PlaceOrderResult, error) {
	var result *PlaceOrderResult

	err := db.WithTx(ctx, r.db, r.txTimeout, func(tx *sql.Tx) error {
		lines, err := lockCartLines(ctx, tx, params.UserID)
		if err != nil {
			log.Error("failed to read cart", zap.Error(err))
			return err
		}

		if !hasOrderableLines(lines) {
			return ErrCartEmpty
		}
		totals := computeTotals(lines)

		orderNumber := utils.GenerateOrderNumber(r.now())

		var orderID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				order_number, user_id, status,
				subtotal, tax_amount, shipping_amount, discount_amount, total_amount,
				shipping_address_id, billing_address_id, payment_method, notes
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULLIF($12, ''))
			RETURNING order_id
		`,
			orderNumber,
			params.UserID,
			StatusPending,
			totals.Subtotal,
			totals.Tax,
			totals.Shipping,
			totals.Discount,
			totals.Total,
			params.ShippingAddressID,
			params.BillingAddressID,
			params.PaymentMethod,
			params.Notes,
		).Scan(&orderID)
		if err != nil {
			log.Error("failed to insert order", zap.Error(err))
			return err
		}

		for i, line := range lines {
			if line.Quantity <= 0 {
				continue
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (
					order_id, product_id, product_name, product_sku,
					quantity, unit_price, total_price
				) VALUES ($1,$2,$3,$4,$5,$6,$7)
			`,
				orderID,
				line.ProductID,
				line.ProductName,
				line.ProductSKU,
				line.Quantity,
				line.Price,
				line.Price.Times(line.Quantity),
			)
			if err != nil {
				log.Error("failed to insert order item",
					zap.Int("item_index", i),
					zap.Int64("product_id", line.ProductID),
					zap.Error(err),
				)
				return err
			}
		}

		if err := insertHistory(ctx, tx, orderID, StatusPending, "Order created"); err != nil {
			log.Error("failed to insert status history", zap.Error(err))
			return err
		}

		cartIDs := make([]int64, 0, len(lines))
		for _, line := range lines {
			cartIDs = append(cartIDs, line.CartID)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM cart
			WHERE user_id = $1 AND cart_id = ANY($2)
		`, params.UserID, pq.Array(cartIDs)); err != nil {
			log.Error("failed to clear consumed cart lines", zap.Error(err))
			return err
		}

		result = &PlaceOrderResult{
			OrderID:     orderID,
			OrderNumber: orderNumber,
			TotalAmount: totals.Total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func lockCartLines(ctx context.Context, tx *sql.Tx, userID int64) ([]checkoutLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT
			c.cart_id,
			c.product_id,
			c.quantity,
			c.price_at_added,
			p.name,
			p.sku
		FROM cart c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.cart_id
		FOR UPDATE OF c
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []checkoutLine
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(
			&l.CartID,
			&l.ProductID,
			&l.Quantity,
			&l.Price,
			&l.ProductName,
			&l.ProductSKU,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func hasOrderableLines(lines []checkoutLine) bool {
	for _, l := range lines {
		if l.Quantity > 0 {
			return true
		}
	}
	return false
}

func insertHistory(ctx context.Context, tx *sql.Tx, orderID int64, status OrderStatus, notes string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, notes)
		VALUES ($1, $2, NULLIF($3, ''))
	`, orderID, status, notes)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*OrderSummary, error) {
	return r.listSummaries(ctx, `
		SELECT order_id, order_number, user_id, status, total_amount, payment_status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, order_id DESC
	`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*OrderSummary, error) {
	return r.listSummaries(ctx, `
		SELECT order_id, order_number, user_id, status, total_amount, payment_status, created_at
		FROM orders
		ORDER BY created_at DESC, order_id DESC
	`)
}

func (r *repository) listSummaries(ctx context.Context, query string, args ...interface{}) ([]*OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	orders := make([]*OrderSummary, 0)
	for rows.Next() {
		o := &OrderSummary{}
		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&o.UserID,
			&o.Status,
			&o.TotalAmount,
			&o.PaymentStatus,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetDetails returns nil when the order does not exist or belongs to another
// user.
func (r *repository) GetDetails(ctx context.Context, userID, orderID int64) (*OrderDetails, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetDetails"),
		zap.Int64("order_id", orderID),
	)

	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			order_id, order_number, user_id, status, payment_status,
			subtotal, tax_amount, shipping_amount, discount_amount, total_amount,
			shipping_address_id, billing_address_id, payment_method,
			COALESCE(notes, ''), created_at, updated_at
		FROM orders
		WHERE order_id = $1 AND user_id = $2
	`, orderID, userID).Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&o.PaymentStatus,
		&o.Subtotal,
		&o.TaxAmount,
		&o.ShippingAmount,
		&o.DiscountAmount,
		&o.TotalAmount,
		&o.ShippingAddressID,
		&o.BillingAddressID,
		&o.PaymentMethod,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get order", zap.Error(err))
		return nil, err
	}

	items, err := r.getItems(ctx, orderID)
	if err != nil {
		log.Error("failed to get order items", zap.Error(err))
		return nil, err
	}

	history, err := r.getHistory(ctx, orderID)
	if err != nil {
		log.Error("failed to get order history", zap.Error(err))
		return nil, err
	}

	return &OrderDetails{Order: o, Items: items, History: history}, nil
}

func (r *repository) getItems(ctx context.Context, orderID int64) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_item_id, order_id, product_id, product_name, product_sku,
		       quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY order_item_id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*OrderItem, 0)
	for rows.Next() {
		it := &OrderItem{}
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductID,
			&it.ProductName,
			&it.ProductSKU,
			&it.Quantity,
			&it.UnitPrice,
			&it.TotalPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) getHistory(ctx context.Context, orderID int64) ([]*StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT history_id, order_id, status, COALESCE(notes, ''), created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at ASC, history_id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]*StatusHistory, 0)
	for rows.Next() {
		h := &StatusHistory{}
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Notes, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// UpdateStatus sets the order status and appends the matching history entry
// atomically.
func (r *repository) UpdateStatus(ctx context.Context, patch StatusPatch) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", patch.OrderID),
		zap.String("status", string(patch.Status)),
	)

	return db.WithTx(ctx, r.db, r.txTimeout, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `
			UPDATE orders
			SET status = $1, updated_at = NOW()
			WHERE order_id = $2
			RETURNING order_id
		`, patch.Status, patch.OrderID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			log.Error("failed to update order status", zap.Error(err))
			return err
		}

		if err := insertHistory(ctx, tx, id, patch.Status, patch.Notes); err != nil {
			log.Error("failed to insert status history", zap.Error(err))
			return err
		}

		log.Info("order status updated")
		return nil
	})
}
