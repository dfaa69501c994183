package order

import "storefront-be/internal/apperror"

var (
	ErrUserNotAuthenticated = apperror.New(apperror.Unauthorized, "user not authenticated")
	ErrCartEmpty            = apperror.New(apperror.CartEmpty, "cart is empty")
	ErrOrderNotFound        = apperror.New(apperror.OrderNotFound, "order not found")

	ErrAddressRequired      = apperror.New(apperror.InvalidInput, "shipping and billing address required")
	ErrInvalidPaymentMethod = apperror.New(apperror.InvalidInput, "invalid payment method")
	ErrNotesTooLong         = apperror.New(apperror.InvalidInput, "notes must be at most 1000 characters")
	ErrInvalidStatus        = apperror.New(apperror.InvalidInput, "invalid order status")
)

// constraint names from migrations/00001_init.sql
const orderNumberConstraint = "orders_order_number_key"
