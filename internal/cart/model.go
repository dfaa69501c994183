package cart

import (
	"time"

	"storefront-be/internal/money"
)

type CartItem struct {
	ID           int64       `json:"cart_id"`
	UserID       int64       `json:"user_id"`
	ProductID    int64       `json:"product_id"`
	Quantity     int         `json:"quantity"`
	PriceAtAdded money.Money `json:"price_at_added"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// CartLine is a cart item joined with the product it points at.
type CartLine struct {
	CartItem
	ProductName string `json:"product_name"`
	ProductSlug string `json:"product_slug"`
	IsActive    bool   `json:"is_active"`
}

// LineTotal is quantity times the price captured when the item was added.
func (c CartItem) LineTotal() money.Money {
	return c.PriceAtAdded.Times(c.Quantity)
}

// MaxQuantity bounds a single cart line, including the sum of repeated adds.
const MaxQuantity = 10000

type AddToCartParams struct {
	UserID    int64
	ProductID int64
	Quantity  int
	Price     money.Money
}

type UpdateCartItemParams struct {
	UserID   int64
	CartID   int64
	Quantity int
}

type AddToCartResult struct {
	Item    *CartItem `json:"item"`
	Created bool      `json:"created"`
}
