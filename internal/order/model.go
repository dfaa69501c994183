package order

import (
	"time"

	"storefront-be/internal/money"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the order-level view of its payments. It is derived from
// the latest payment callback and never set directly by clients.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodPaypal     PaymentMethod = "paypal"
	PaymentMethodCOD        PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPaypal, PaymentMethodCOD:
		return true
	}
	return false
}

const MaxNotesLength = 1000

type Order struct {
	ID                int64         `json:"order_id"`
	OrderNumber       string        `json:"order_number"`
	UserID            int64         `json:"user_id"`
	Status            OrderStatus   `json:"status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	Subtotal          money.Money   `json:"subtotal"`
	TaxAmount         money.Money   `json:"tax_amount"`
	ShippingAmount    money.Money   `json:"shipping_amount"`
	DiscountAmount    money.Money   `json:"discount_amount"`
	TotalAmount       money.Money   `json:"total_amount"`
	ShippingAddressID int64         `json:"shipping_address_id"`
	BillingAddressID  int64         `json:"billing_address_id"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// OrderItem is a by-value snapshot of a cart line at checkout time.
type OrderItem struct {
	ID          int64       `json:"order_item_id"`
	OrderID     int64       `json:"order_id"`
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	ProductSKU  string      `json:"product_sku"`
	Quantity    int         `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
	TotalPrice  money.Money `json:"total_price"`
}

type StatusHistory struct {
	ID        int64       `json:"history_id"`
	OrderID   int64       `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type OrderSummary struct {
	ID            int64         `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	UserID        int64         `json:"user_id,omitempty"`
	Status        OrderStatus   `json:"status"`
	TotalAmount   money.Money   `json:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type OrderDetails struct {
	Order   *Order           `json:"order"`
	Items   []*OrderItem     `json:"items"`
	History []*StatusHistory `json:"history"`
}

type PlaceOrderParams struct {
	UserID            int64
	ShippingAddressID int64
	BillingAddressID  int64
	PaymentMethod     PaymentMethod
	Notes             string
}

type PlaceOrderResult struct {
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	TotalAmount money.Money `json:"total_amount"`
}

// StatusPatch is the only mutable surface of an order after placement.
type StatusPatch struct {
	OrderID int64
	Status  OrderStatus
	Notes   string
}

// Totals of an order. Tax, shipping and discount are carried but not
// computed yet.
type Totals struct {
	Subtotal money.Money
	Tax      money.Money
	Shipping money.Money
	Discount money.Money
	Total    money.Money
}

// checkoutLine is a locked cart row joined with the product snapshot fields.
type checkoutLine struct {
	CartID      int64
	ProductID   int64
	Quantity    int
	Price       money.Money
	ProductName string
	ProductSKU  string
}

// computeTotals sums quantity x price over lines with a positive quantity.
func computeTotals(lines []checkoutLine) Totals {
	subtotal := money.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.Price.Times(l.Quantity))
	}
	t := Totals{
		Subtotal: subtotal,
		Tax:      money.Zero,
		Shipping: money.Zero,
		Discount: money.Zero,
	}
	t.Total = t.Subtotal.Add(t.Tax).Add(t.Shipping).Sub(t.Discount)
	return t
}
