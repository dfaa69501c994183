package api

import (
	"bytes"
	"encoding/json"

	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/response"

	"github.com/gin-gonic/gin"
)

type initiatePaymentRequest struct {
	OrderID       int64  `json:"order_id" binding:"required,gt=0"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=credit_card debit_card paypal cod"`
}

// paymentStatusRequest is the simulated gateway callback body.
// gateway_response may be any JSON value and is stored as raw text.
type paymentStatusRequest struct {
	Status          string          `json:"status" binding:"required,oneof=pending completed failed refunded"`
	TransactionID   string          `json:"transaction_id" binding:"max=255"`
	GatewayResponse json.RawMessage `json:"gateway_response"`
}

func (r paymentStatusRequest) gatewayResponse() string {
	raw := bytes.TrimSpace(r.GatewayResponse)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// paymentStatusView is what a callback caller gets back; gateway details stay
// with the admin listing.
type paymentStatusView struct {
	PaymentID          int64               `json:"payment_id"`
	Status             payment.Status      `json:"status"`
	OrderPaymentStatus order.PaymentStatus `json:"order_payment_status"`
}

func newPaymentStatusView(res *payment.StatusUpdateResult) paymentStatusView {
	return paymentStatusView{
		PaymentID:          res.Payment.ID,
		Status:             res.Payment.Status,
		OrderPaymentStatus: res.OrderPaymentStatus,
	}
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req initiatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.payments.InitiatePayment(c.Request.Context(), payment.CreatePaymentParams{
		UserID:        userID,
		OrderID:       req.OrderID,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment initiated", res)
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	paymentID, ok := pathID(c, "payment_id")
	if !ok {
		return
	}
	var req paymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.payments.UpdatePaymentStatus(c.Request.Context(), payment.StatusUpdate{
		PaymentID:       paymentID,
		Status:          payment.Status(req.Status),
		TransactionID:   req.TransactionID,
		GatewayResponse: req.gatewayResponse(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.PaymentUpdated(req.Status)
	response.OK(c, "Payment status updated", newPaymentStatusView(res))
}

func (h *Handler) GetOrderPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	payments, err := h.payments.GetPaymentsByOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", payments)
}

func (h *Handler) AdminListPayments(c *gin.Context) {
	payments, err := h.payments.ListAllPayments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", payments)
}

func (h *Handler) AdminRefundPayment(c *gin.Context) {
	paymentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.payments.RefundPayment(c.Request.Context(), paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.PaymentUpdated(string(payment.StatusRefunded))
	response.OK(c, "Payment refunded", newPaymentStatusView(res))
}
