package cart

import (
	"context"
)

// Service defines the business logic for carts.
type Service interface {
	AddToCart(ctx context.Context, params AddToCartParams) (*AddToCartResult, error)
	GetCartItems(ctx context.Context, userID int64) ([]*CartLine, error)
	UpdateCartItem(ctx context.Context, params UpdateCartItemParams) (bool, error)
	RemoveCartItem(ctx context.Context, userID, cartID int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// AddToCart adds quantity to the user's line for the product, creating the
// line when absent. The price always reflects the latest add.
func (s *service) AddToCart(ctx context.Context, params AddToCartParams) (*AddToCartResult, error) {
	if params.UserID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.ProductID <= 0 {
		return nil, ErrInvalidCartItem
	}
	if params.Quantity < 1 || params.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if !params.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	return s.repo.AddOrIncrement(ctx, params)
}

func (s *service) GetCartItems(ctx context.Context, userID int64) ([]*CartLine, error) {
	if userID <= 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetCartItems(ctx, userID)
}

// UpdateCartItem sets an absolute quantity. Zero is accepted and keeps the
// line; callers remove lines explicitly.
func (s *service) UpdateCartItem(ctx context.Context, params UpdateCartItemParams) (bool, error) {
	if params.UserID <= 0 {
		return false, ErrUserNotAuthenticated
	}
	if params.CartID <= 0 {
		return false, ErrInvalidCartItem
	}
	if params.Quantity < 0 || params.Quantity > MaxQuantity {
		return false, ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, params)
}

func (s *service) RemoveCartItem(ctx context.Context, userID, cartID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrUserNotAuthenticated
	}
	if cartID <= 0 {
		return false, ErrInvalidCartItem
	}
	return s.repo.RemoveItem(ctx, userID, cartID)
}

func (s *service) ClearCart(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrUserNotAuthenticated
	}
	return s.repo.ClearCart(ctx, userID)
}
