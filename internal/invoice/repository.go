package invoice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	Generate(ctx context.Context, userID, orderID int64) (*Invoice, error)
	GetByOrder(ctx context.Context, userID, orderID int64) (*Invoice, error)
	GetByOrderAdmin(ctx context.Context, orderID int64) (*Invoice, error)
	Reissue(ctx context.Context, orderID int64) (*Invoice, error)
}

type repository struct {
	db        *sql.DB
	txTimeout time.Duration
	baseURL   string
	now       func() time.Time
}

func NewRepository(db *sql.DB, txTimeout time.Duration, baseURL string) Repository {
	return &repository{
		db:        db,
		txTimeout: txTimeout,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

// Generate issues the single invoice of a paid order. The order row is held
// for the whole check-then-insert, and invoices.order_id is unique, so a
// racing request ends in ErrInvoiceAlreadyExists either way.
func (r *repository) Generate(ctx context.Context, userID, orderID int64) (*Invoice, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GenerateInvoice"),
		zap.Int64("order_id", orderID),
	)

	inv, err := r.generate(ctx, log, userID, orderID)
	if err != nil {
		return nil, err
	}

	log.Info("invoice generated", zap.String("invoice_number", inv.InvoiceNumber))
	return inv, nil
}

func (r *repository) generate(ctx context.Context, log *zap.Logger, userID, orderID int64) (*Invoice, error) {
	var inv *Invoice

	err := db.WithTx(ctx, r.db, r.txTimeout, func(tx *sql.Tx) error {
		var paymentStatus order.PaymentStatus
		err := tx.QueryRowContext(ctx, `
			SELECT payment_status
			FROM orders
			WHERE order_id = $1 AND user_id = $2
			FOR UPDATE
		`, orderID, userID).Scan(&paymentStatus)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			log.Error("failed to lock order", zap.Error(err))
			return err
		}
		if paymentStatus != order.PaymentStatusPaid {
			return ErrPaymentNotCompleted
		}

		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM invoices WHERE order_id = $1)
		`, orderID).Scan(&exists); err != nil {
			log.Error("failed to check invoice", zap.Error(err))
			return err
		}
		if exists {
			return ErrInvoiceAlreadyExists
		}

		doc := newDocument(utils.GenerateInvoiceNumber(r.now(), orderID), r.baseURL)
		res := &Invoice{
			OrderID:       orderID,
			InvoiceNumber: doc.Number,
			FilePath:      doc.Path,
			FileURL:       doc.URL,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO invoices (order_id, invoice_number, file_path, file_url)
			VALUES ($1, $2, $3, $4)
			RETURNING invoice_id, generated_at, updated_at
		`, orderID, doc.Number, doc.Path, doc.URL).Scan(&res.ID, &res.GeneratedAt, &res.UpdatedAt)
		if db.IsUniqueViolation(err, invoiceOrderConstraint) {
			return ErrInvoiceAlreadyExists
		}
		if err != nil {
			log.Error("failed to insert invoice", zap.Error(err))
			return err
		}

		inv = res
		return nil
	})
	return inv, err
}

// GetByOrder returns nil when the order has no invoice or is not the
// caller's.
func (r *repository) GetByOrder(ctx context.Context, userID, orderID int64) (*Invoice, error) {
	return r.get(ctx, `
		SELECT i.invoice_id, i.order_id, i.invoice_number, i.file_path, i.file_url, i.generated_at, i.updated_at
		FROM invoices i
		JOIN orders o ON o.order_id = i.order_id
		WHERE i.order_id = $1 AND o.user_id = $2
	`, orderID, userID)
}

func (r *repository) GetByOrderAdmin(ctx context.Context, orderID int64) (*Invoice, error) {
	return r.get(ctx, `
		SELECT invoice_id, order_id, invoice_number, file_path, file_url, generated_at, updated_at
		FROM invoices
		WHERE order_id = $1
	`, orderID)
}

func (r *repository) get(ctx context.Context, query string, args ...interface{}) (*Invoice, error) {
	inv := &Invoice{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&inv.OrderID,
		&inv.InvoiceNumber,
		&inv.FilePath,
		&inv.FileURL,
		&inv.GeneratedAt,
		&inv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get invoice",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	return inv, nil
}

// Reissue gives an existing invoice a fresh number and file location. The
// row keeps its id and generated_at.
func (r *repository) Reissue(ctx context.Context, orderID int64) (*Invoice, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ReissueInvoice"),
		zap.Int64("order_id", orderID),
	)

	var inv *Invoice
	err := db.WithTx(ctx, r.db, r.txTimeout, func(tx *sql.Tx) error {
		doc := newDocument(utils.GenerateInvoiceNumber(r.now(), orderID), r.baseURL)
		res := &Invoice{}
		err := tx.QueryRowContext(ctx, `
			UPDATE invoices
			SET invoice_number = $1, file_path = $2, file_url = $3, updated_at = NOW()
			WHERE order_id = $4
			RETURNING invoice_id, order_id, invoice_number, file_path, file_url, generated_at, updated_at
		`, doc.Number, doc.Path, doc.URL, orderID).Scan(
			&res.ID,
			&res.OrderID,
			&res.InvoiceNumber,
			&res.FilePath,
			&res.FileURL,
			&res.GeneratedAt,
			&res.UpdatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvoiceNotFound
		}
		if err != nil {
			return err
		}
		inv = res
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvoiceNotFound) {
			log.Error("failed to reissue invoice", zap.Error(err))
		}
		return nil, err
	}

	log.Info("invoice reissued", zap.String("invoice_number", inv.InvoiceNumber))
	return inv, nil
}
