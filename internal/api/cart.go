package api

import (
	"storefront-be/internal/cart"
	"storefront-be/internal/money"
	"storefront-be/internal/response"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID int64       `json:"product_id" binding:"required,gt=0"`
	Quantity  int         `json:"quantity" binding:"required,gte=1,lte=10000"`
	Price     money.Money `json:"price"`
}

type updateCartRequest struct {
	CartID int64 `json:"cart_id" binding:"required,gt=0"`
	// pointer so an explicit zero passes "required"
	Quantity *int `json:"quantity" binding:"required,gte=0,lte=10000"`
}

type cartView struct {
	Items    []*cart.CartLine `json:"items"`
	Subtotal money.Money      `json:"subtotal"`
}

func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.cart.GetCartItems(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	subtotal := money.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	response.OK(c, "", cartView{Items: items, Subtotal: subtotal})
}

func (h *Handler) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req addToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.cart.AddToCart(c.Request.Context(), cart.AddToCartParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added to cart", res)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req updateCartRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.cart.UpdateCartItem(c.Request.Context(), cart.UpdateCartItemParams{
		UserID:   userID,
		CartID:   req.CartID,
		Quantity: *req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !updated {
		response.Error(c, cart.ErrCartItemNotFound)
		return
	}
	response.OK(c, "Cart updated", nil)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cartID, ok := pathID(c, "cart_id")
	if !ok {
		return
	}

	removed, err := h.cart.RemoveCartItem(c.Request.Context(), userID, cartID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, cart.ErrCartItemNotFound)
		return
	}
	response.OK(c, "Item removed", nil)
}

func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	removed, err := h.cart.ClearCart(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", gin.H{"removed": removed})
}
