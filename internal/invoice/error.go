package invoice

import (
	"storefront-be/internal/apperror"
	"storefront-be/internal/order"
)

var (
	ErrUserNotAuthenticated = order.ErrUserNotAuthenticated
	ErrOrderNotFound        = order.ErrOrderNotFound
	ErrPaymentNotCompleted  = apperror.New(apperror.PaymentNotCompleted, "payment not completed")
	ErrInvoiceAlreadyExists = apperror.New(apperror.InvoiceAlreadyExists, "invoice already exists")
	ErrInvoiceNotFound      = apperror.New(apperror.InvoiceNotFound, "invoice not found")
)

// constraint name from migrations/00001_init.sql
const invoiceOrderConstraint = "invoices_order_id_key"
