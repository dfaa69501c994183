package payment

import (
	"context"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// InvoiceScheduler is notified once a payment completes so the invoice can
// be produced out of band.
type InvoiceScheduler interface {
	ScheduleInvoice(ctx context.Context, userID, orderID int64) error
}

type Service interface {
	InitiatePayment(ctx context.Context, params CreatePaymentParams) (*CreatePaymentResult, error)
	UpdatePaymentStatus(ctx context.Context, update StatusUpdate) (*StatusUpdateResult, error)
	GetPaymentsByOrder(ctx context.Context, userID, orderID int64) ([]*Payment, error)

	// admin
	ListAllPayments(ctx context.Context) ([]*Payment, error)
	RefundPayment(ctx context.Context, paymentID int64) (*StatusUpdateResult, error)
}

type service struct {
	repo      Repository
	scheduler InvoiceScheduler
}

// NewService accepts a nil scheduler, in which case invoices are only
// generated on request.
func NewService(repo Repository, scheduler InvoiceScheduler) Service {
	return &service{repo: repo, scheduler: scheduler}
}

func (s *service) InitiatePayment(ctx context.Context, params CreatePaymentParams) (*CreatePaymentResult, error) {
	if params.UserID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.OrderID <= 0 {
		return nil, ErrOrderNotFound
	}
	if !params.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	return s.repo.Create(ctx, params)
}

func (s *service) UpdatePaymentStatus(ctx context.Context, update StatusUpdate) (*StatusUpdateResult, error) {
	if update.PaymentID <= 0 {
		return nil, ErrPaymentNotFound
	}
	if !update.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if len(update.TransactionID) > MaxTransactionIDLength ||
		len(update.GatewayResponse) > MaxGatewayResponseLength {
		return nil, ErrFieldTooLong
	}

	res, err := s.repo.UpdateStatus(ctx, update)
	if err != nil {
		return nil, err
	}

	if update.Status == StatusCompleted && s.scheduler != nil {
		// The payment is already committed; a scheduling failure leaves the
		// invoice to be generated on request.
		if err := s.scheduler.ScheduleInvoice(ctx, res.UserID, res.Payment.OrderID); err != nil {
			logger.FromCtx(ctx).Warn("failed to schedule invoice",
				zap.String("layer", "service"),
				zap.Int64("order_id", res.Payment.OrderID),
				zap.Error(err),
			)
		}
	}
	return res, nil
}

func (s *service) GetPaymentsByOrder(ctx context.Context, userID, orderID int64) ([]*Payment, error) {
	if userID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if orderID <= 0 {
		return nil, ErrOrderNotFound
	}
	return s.repo.ListByOrder(ctx, userID, orderID)
}

func (s *service) ListAllPayments(ctx context.Context) ([]*Payment, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) RefundPayment(ctx context.Context, paymentID int64) (*StatusUpdateResult, error) {
	return s.UpdatePaymentStatus(ctx, StatusUpdate{PaymentID: paymentID, Status: StatusRefunded})
}
