package payment

import (
	"time"

	"storefront-be/internal/money"
	"storefront-be/internal/order"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"

	// StatusCancelled marks a pending attempt superseded by a newer one. It
	// is set internally and is not accepted from callbacks.
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s may be reported by a gateway callback.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// OrderPaymentStatus maps a payment status onto the order. The mapping is
// total: anything that is neither completed nor failed reads as pending.
func (s Status) OrderPaymentStatus() order.PaymentStatus {
	switch s {
	case StatusCompleted:
		return order.PaymentStatusPaid
	case StatusFailed:
		return order.PaymentStatusFailed
	default:
		return order.PaymentStatusPending
	}
}

type Payment struct {
	ID              int64               `json:"payment_id"`
	OrderID         int64               `json:"order_id"`
	PaymentMethod   order.PaymentMethod `json:"payment_method"`
	Amount          money.Money         `json:"amount"`
	Currency        string              `json:"currency"`
	Status          Status              `json:"status"`
	TransactionID   string              `json:"transaction_id,omitempty"`
	GatewayResponse string              `json:"gateway_response,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type CreatePaymentParams struct {
	UserID        int64
	OrderID       int64
	PaymentMethod order.PaymentMethod
}

type CreatePaymentResult struct {
	PaymentID int64       `json:"payment_id"`
	OrderID   int64       `json:"order_id"`
	Amount    money.Money `json:"amount"`
	Currency  string      `json:"currency"`
	Status    Status      `json:"status"`
}

// StatusUpdate is a simulated gateway callback.
type StatusUpdate struct {
	PaymentID       int64
	Status          Status
	TransactionID   string
	GatewayResponse string
}

type StatusUpdateResult struct {
	Payment            *Payment            `json:"payment"`
	UserID             int64               `json:"-"`
	OrderPaymentStatus order.PaymentStatus `json:"order_payment_status"`
}

const (
	MaxTransactionIDLength   = 255
	MaxGatewayResponseLength = 2000
)
