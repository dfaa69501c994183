package order

import (
	"context"
	"unicode/utf8"
)

type Service interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error)
	ListOrders(ctx context.Context, userID int64) ([]*OrderSummary, error)
	GetOrderDetails(ctx context.Context, userID, orderID int64) (*OrderDetails, error)

	// admin
	ListAllOrders(ctx context.Context) ([]*OrderSummary, error)
	UpdateOrderStatus(ctx context.Context, patch StatusPatch) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error) {
	if params.UserID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.ShippingAddressID <= 0 || params.BillingAddressID <= 0 {
		return nil, ErrAddressRequired
	}
	if !params.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if utf8.RuneCountInString(params.Notes) > MaxNotesLength {
		return nil, ErrNotesTooLong
	}

	return s.repo.PlaceOrder(ctx, params)
}

func (s *service) ListOrders(ctx context.Context, userID int64) ([]*OrderSummary, error) {
	if userID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetOrderDetails does not distinguish a missing order from one owned by
// somebody else.
func (s *service) GetOrderDetails(ctx context.Context, userID, orderID int64) (*OrderDetails, error) {
	if userID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if orderID <= 0 {
		return nil, ErrOrderNotFound
	}

	details, err := s.repo.GetDetails(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrOrderNotFound
	}
	return details, nil
}

func (s *service) ListAllOrders(ctx context.Context) ([]*OrderSummary, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) UpdateOrderStatus(ctx context.Context, patch StatusPatch) error {
	if patch.OrderID <= 0 {
		return ErrOrderNotFound
	}
	if !patch.Status.Valid() {
		return ErrInvalidStatus
	}
	if utf8.RuneCountInString(patch.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if patch.Notes == "" {
		patch.Notes = "Status updated to " + string(patch.Status)
	}
	return s.repo.UpdateStatus(ctx, patch)
}
