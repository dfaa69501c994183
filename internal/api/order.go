package api

import (
	"storefront-be/internal/order"
	"storefront-be/internal/response"

	"github.com/gin-gonic/gin"
)

type placeOrderRequest struct {
	ShippingAddressID int64  `json:"shipping_address_id" binding:"required,gt=0"`
	BillingAddressID  int64  `json:"billing_address_id" binding:"required,gt=0"`
	PaymentMethod     string `json:"payment_method" binding:"required,oneof=credit_card debit_card paypal cod"`
	Notes             string `json:"notes" binding:"max=1000"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
	Notes  string `json:"notes" binding:"max=1000"`
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req placeOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.orders.PlaceOrder(c.Request.Context(), order.PlaceOrderParams{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethod:     order.PaymentMethod(req.PaymentMethod),
		Notes:             req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.OrderPlaced()
	response.Created(c, "Order placed successfully", res)
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	details, err := h.orders.GetOrderDetails(c.Request.Context(), userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", details)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", orders)
}

func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.orders.UpdateOrderStatus(c.Request.Context(), order.StatusPatch{
		OrderID: orderID,
		Status:  order.OrderStatus(req.Status),
		Notes:   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order status updated", gin.H{"order_id": orderID, "status": req.Status})
}
