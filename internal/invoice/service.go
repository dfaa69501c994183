package invoice

import "context"

type Service interface {
	GenerateInvoice(ctx context.Context, userID, orderID int64) (*Invoice, error)
	GetInvoiceByOrder(ctx context.Context, userID, orderID int64) (*Invoice, error)

	// admin
	GetInvoice(ctx context.Context, orderID int64) (*Invoice, error)
	ReissueInvoice(ctx context.Context, orderID int64) (*Invoice, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GenerateInvoice(ctx context.Context, userID, orderID int64) (*Invoice, error) {
	if userID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if orderID <= 0 {
		return nil, ErrOrderNotFound
	}
	return s.repo.Generate(ctx, userID, orderID)
}

// GetInvoiceByOrder returns nil, nil when there is nothing to show the
// caller.
func (s *service) GetInvoiceByOrder(ctx context.Context, userID, orderID int64) (*Invoice, error) {
	if userID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if orderID <= 0 {
		return nil, nil
	}
	return s.repo.GetByOrder(ctx, userID, orderID)
}

func (s *service) GetInvoice(ctx context.Context, orderID int64) (*Invoice, error) {
	inv, err := s.repo.GetByOrderAdmin(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *service) ReissueInvoice(ctx context.Context, orderID int64) (*Invoice, error) {
	if orderID <= 0 {
		return nil, ErrInvoiceNotFound
	}
	return s.repo.Reissue(ctx, orderID)
}
