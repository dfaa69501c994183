// Package response writes the JSON envelope shared by every endpoint and
// maps error kinds to HTTP status codes.
package response

import (
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

var kindStatus = map[apperror.Kind]int{
	apperror.InvalidInput:         http.StatusBadRequest,
	apperror.Unauthorized:         http.StatusUnauthorized,
	apperror.Forbidden:            http.StatusForbidden,
	apperror.Unavailable:          http.StatusServiceUnavailable,
	apperror.CartEmpty:            http.StatusBadRequest,
	apperror.CartItemNotFound:     http.StatusNotFound,
	apperror.OrderNotFound:        http.StatusNotFound,
	apperror.OrderAlreadyPaid:     http.StatusConflict,
	apperror.PaymentNotFound:      http.StatusNotFound,
	apperror.PaymentNotCompleted:  http.StatusBadRequest,
	apperror.InvoiceAlreadyExists: http.StatusConflict,
	apperror.InvoiceNotFound:      http.StatusNotFound,
}

// StatusOf maps an error kind to its HTTP status. Unknown kinds are 500.
func StatusOf(kind apperror.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Error writes err as an error envelope and aborts the chain. Internal errors
// are logged with their cause and reported with a generic message.
func Error(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := StatusOf(kind)

	if status >= http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", c.FullPath()),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
	}

	Abort(c, status, kind.String(), apperror.MessageOf(err))
}

// Abort writes an error envelope with an explicit status.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:      code,
			Message:   message,
			RequestID: c.GetString(logger.RequestIDKey),
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	Abort(c, http.StatusBadRequest, apperror.InvalidInput.String(), message)
}
