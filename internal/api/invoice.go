package api

import (
	"storefront-be/internal/invoice"
	"storefront-be/internal/response"

	"github.com/gin-gonic/gin"
)

type generateInvoiceRequest struct {
	OrderID int64 `json:"order_id" binding:"required,gt=0"`
}

func (h *Handler) GenerateInvoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req generateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.invoices.GenerateInvoice(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.InvoiceGenerated("request")
	response.Created(c, "Invoice generated", inv)
}

func (h *Handler) GetInvoiceByOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	inv, err := h.invoices.GetInvoiceByOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if inv == nil {
		response.Error(c, invoice.ErrInvoiceNotFound)
		return
	}
	response.OK(c, "", inv)
}

func (h *Handler) AdminGetInvoice(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	inv, err := h.invoices.GetInvoice(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", inv)
}

func (h *Handler) AdminReissueInvoice(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	inv, err := h.invoices.ReissueInvoice(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.InvoiceGenerated("reissue")
	response.OK(c, "Invoice reissued", inv)
}
