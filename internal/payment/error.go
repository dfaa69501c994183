package payment

import (
	"storefront-be/internal/apperror"
	"storefront-be/internal/order"
)

var (
	ErrUserNotAuthenticated = order.ErrUserNotAuthenticated
	ErrOrderNotFound        = order.ErrOrderNotFound
	ErrOrderAlreadyPaid     = apperror.New(apperror.OrderAlreadyPaid, "order already paid")
	ErrPaymentNotFound      = apperror.New(apperror.PaymentNotFound, "payment not found")

	ErrInvalidPaymentMethod = order.ErrInvalidPaymentMethod
	ErrInvalidStatus        = apperror.New(apperror.InvalidInput, "invalid payment status")
	ErrFieldTooLong         = apperror.New(apperror.InvalidInput, "transaction_id or gateway_response too long")
)
