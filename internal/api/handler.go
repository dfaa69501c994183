package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"storefront-be/internal/apperror"
	"storefront-be/internal/cart"
	"storefront-be/internal/invoice"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/response"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	cart     cart.Service
	orders   order.Service
	payments payment.Service
	invoices invoice.Service
	metrics  *metrics.Metrics
}

func NewHandler(
	cartSvc cart.Service,
	orderSvc order.Service,
	paymentSvc payment.Service,
	invoiceSvc invoice.Service,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		cart:     cartSvc,
		orders:   orderSvc,
		payments: paymentSvc,
		invoices: invoiceSvc,
		metrics:  m,
	}
}

var errUnauthenticated = apperror.New(apperror.Unauthorized, "authentication required")

// currentUserID writes a 401 and returns false when the request carries no
// account.
func currentUserID(c *gin.Context) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		response.Error(c, errUnauthenticated)
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		response.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "oneof":
			return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			return fmt.Sprintf("%s is invalid (%s=%s)", fe.Field(), fe.Tag(), fe.Param())
		}
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "invalid request body"
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}
