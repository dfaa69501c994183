package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/invoice"
	"storefront-be/internal/metrics"
	"storefront-be/internal/money"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	cart     *MockCartService
	orders   *MockOrderService
	payments *MockPaymentService
	invoices *MockInvoiceService
	metrics  *metrics.Metrics
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cart:     new(MockCartService),
		orders:   new(MockOrderService),
		payments: new(MockPaymentService),
		invoices: new(MockInvoiceService),
		metrics:  metrics.New("test"),
	}
	h := NewHandler(env.cart, env.orders, env.payments, env.invoices, env.metrics)
	env.router = NewRouter(h, RouterOptions{JWTSecret: testSecret, Metrics: env.metrics})
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, userID int64, role string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		tok, err := auth.SignToken(testSecret, userID, "u@example.com", role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (e *testEnv) customer(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	return e.do(t, method, path, body, 1, utils.RoleCustomer)
}

func TestRouter_Public(t *testing.T) {
	env := newTestEnv()

	t.Run("Health", func(t *testing.T) {
		w, body := env.do(t, http.MethodGet, "/health", nil, 0, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		assert.Equal(t, "OK", body.Message)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		w, body := env.do(t, http.MethodGet, "/api/v1/cart", nil, 0, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error.RequestID)
	})

	t.Run("Unknown route", func(t *testing.T) {
		w, _ := env.do(t, http.MethodGet, "/nope", nil, 0, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCartHandlers(t *testing.T) {
	t.Run("Get cart with subtotal", func(t *testing.T) {
		env := newTestEnv()
		env.cart.On("GetCartItems", mock.Anything, int64(1)).Return([]*cart.CartLine{
			{CartItem: cart.CartItem{ID: 1, Quantity: 2, PriceAtAdded: money.MustParse("50.00")}},
			{CartItem: cart.CartItem{ID: 2, Quantity: 1, PriceAtAdded: money.MustParse("20.00")}},
		}, nil)

		w, body := env.customer(t, http.MethodGet, "/api/v1/cart", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view struct {
			Items    []json.RawMessage `json:"items"`
			Subtotal string            `json:"subtotal"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &view))
		assert.Len(t, view.Items, 2)
		assert.Equal(t, "120.00", view.Subtotal)
	})

	t.Run("Add to cart", func(t *testing.T) {
		env := newTestEnv()
		env.cart.On("AddToCart", mock.Anything, mock.MatchedBy(func(p cart.AddToCartParams) bool {
			return p.UserID == 1 && p.ProductID == 10 && p.Quantity == 2 && p.Price.String() == "9.99"
		})).Return(&cart.AddToCartResult{Item: &cart.CartItem{ID: 5}, Created: true}, nil)

		w, body := env.customer(t, http.MethodPost, "/api/v1/cart/add",
			gin.H{"product_id": 10, "quantity": 2, "price": "9.99"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Product added to cart", body.Message)
		env.cart.AssertExpectations(t)
	})

	t.Run("Add rejects zero quantity", func(t *testing.T) {
		env := newTestEnv()

		w, body := env.customer(t, http.MethodPost, "/api/v1/cart/add",
			gin.H{"product_id": 10, "quantity": 0, "price": "9.99"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "quantity is required", body.Error.Message)
		env.cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything)
	})

	t.Run("Add rejects quantity above limit", func(t *testing.T) {
		env := newTestEnv()

		w, _ := env.customer(t, http.MethodPost, "/api/v1/cart/add",
			gin.H{"product_id": 10, "quantity": 3000000000, "price": "9.99"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = env.customer(t, http.MethodPut, "/api/v1/cart/update", gin.H{"cart_id": 5, "quantity": 10001})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything)
		env.cart.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything)
	})

	t.Run("Update to zero is allowed", func(t *testing.T) {
		env := newTestEnv()
		env.cart.On("UpdateCartItem", mock.Anything, cart.UpdateCartItemParams{UserID: 1, CartID: 5, Quantity: 0}).
			Return(true, nil)

		w, _ := env.customer(t, http.MethodPut, "/api/v1/cart/update", gin.H{"cart_id": 5, "quantity": 0})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Update missing item", func(t *testing.T) {
		env := newTestEnv()
		env.cart.On("UpdateCartItem", mock.Anything, mock.Anything).Return(false, nil)

		w, body := env.customer(t, http.MethodPut, "/api/v1/cart/update", gin.H{"cart_id": 5, "quantity": 3})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "CART_ITEM_NOT_FOUND", body.Error.Code)
	})

	t.Run("Remove with bad id", func(t *testing.T) {
		env := newTestEnv()

		w, _ := env.customer(t, http.MethodDelete, "/api/v1/cart/item/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Clear", func(t *testing.T) {
		env := newTestEnv()
		env.cart.On("ClearCart", mock.Anything, int64(1)).Return(int64(3), nil)

		w, body := env.customer(t, http.MethodDelete, "/api/v1/cart/clear", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"removed":3}`, string(body.Data))
	})
}

func TestOrderHandlers(t *testing.T) {
	placeBody := gin.H{
		"shipping_address_id": 5,
		"billing_address_id":  6,
		"payment_method":      "cod",
		"notes":               "leave at door",
	}
	placeParams := order.PlaceOrderParams{
		UserID:            1,
		ShippingAddressID: 5,
		BillingAddressID:  6,
		PaymentMethod:     order.PaymentMethodCOD,
		Notes:             "leave at door",
	}

	t.Run("Place order", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("PlaceOrder", mock.Anything, placeParams).Return(&order.PlaceOrderResult{
			OrderID: 77, OrderNumber: "ORD-1-001", TotalAmount: money.MustParse("120.00"),
		}, nil)

		w, body := env.customer(t, http.MethodPost, "/api/v1/orders", placeBody)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"order_id":77,"order_number":"ORD-1-001","total_amount":"120.00"}`, string(body.Data))
		assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.OrdersPlaced))
	})

	t.Run("Cart empty", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("PlaceOrder", mock.Anything, placeParams).Return(nil, order.ErrCartEmpty)

		w, body := env.customer(t, http.MethodPost, "/api/v1/orders", placeBody)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "CART_EMPTY", body.Error.Code)
		assert.Equal(t, "cart is empty", body.Error.Message)
	})

	t.Run("Invalid payment method", func(t *testing.T) {
		env := newTestEnv()

		w, body := env.customer(t, http.MethodPost, "/api/v1/orders", gin.H{
			"shipping_address_id": 5, "billing_address_id": 6, "payment_method": "bitcoin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body.Error.Message, "payment_method must be one of")
	})

	t.Run("Order not found", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("GetOrderDetails", mock.Anything, int64(1), int64(9)).Return(nil, order.ErrOrderNotFound)

		w, _ := env.customer(t, http.MethodGet, "/api/v1/orders/9", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPaymentHandlers(t *testing.T) {
	t.Run("Initiate already paid", func(t *testing.T) {
		env := newTestEnv()
		env.payments.On("InitiatePayment", mock.Anything, payment.CreatePaymentParams{
			UserID: 1, OrderID: 7, PaymentMethod: order.PaymentMethodPaypal,
		}).Return(nil, payment.ErrOrderAlreadyPaid)

		w, body := env.customer(t, http.MethodPost, "/api/v1/payments/initiate",
			gin.H{"order_id": 7, "payment_method": "paypal"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ORDER_ALREADY_PAID", body.Error.Code)
	})

	t.Run("Callback", func(t *testing.T) {
		env := newTestEnv()
		env.payments.On("UpdatePaymentStatus", mock.Anything, payment.StatusUpdate{
			PaymentID:       3,
			Status:          payment.StatusCompleted,
			TransactionID:   "txn-1",
			GatewayResponse: `{"code":"00"}`,
		}).Return(&payment.StatusUpdateResult{
			Payment: &payment.Payment{
				ID:              3,
				OrderID:         7,
				Status:          payment.StatusCompleted,
				TransactionID:   "txn-1",
				GatewayResponse: `{"code":"00"}`,
			},
			OrderPaymentStatus: order.PaymentStatusPaid,
		}, nil)

		w, body := env.customer(t, http.MethodPut, "/api/v1/payments/3/status", gin.H{
			"status":           "completed",
			"transaction_id":   "txn-1",
			"gateway_response": gin.H{"code": "00"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"payment_id":3,"status":"completed","order_payment_status":"paid"}`, string(body.Data))
		assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.PaymentUpdates.WithLabelValues("completed")))
	})

	t.Run("Callback rejects unknown status", func(t *testing.T) {
		env := newTestEnv()

		w, _ := env.customer(t, http.MethodPut, "/api/v1/payments/3/status", gin.H{"status": "cancelled"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.payments.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything)
	})

	t.Run("Callback unknown payment", func(t *testing.T) {
		env := newTestEnv()
		env.payments.On("UpdatePaymentStatus", mock.Anything, mock.Anything).Return(nil, payment.ErrPaymentNotFound)

		w, _ := env.customer(t, http.MethodPut, "/api/v1/payments/99/status", gin.H{"status": "failed"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("List by order", func(t *testing.T) {
		env := newTestEnv()
		env.payments.On("GetPaymentsByOrder", mock.Anything, int64(1), int64(7)).
			Return([]*payment.Payment{{ID: 4}}, nil)

		w, _ := env.customer(t, http.MethodGet, "/api/v1/payments/order/7", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestInvoiceHandlers(t *testing.T) {
	t.Run("Generate", func(t *testing.T) {
		env := newTestEnv()
		env.invoices.On("GenerateInvoice", mock.Anything, int64(1), int64(7)).
			Return(&invoice.Invoice{ID: 1, OrderID: 7, InvoiceNumber: "INV-1-7"}, nil)

		w, body := env.customer(t, http.MethodPost, "/api/v1/invoices/generate", gin.H{"order_id": 7})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Invoice generated", body.Message)
	})

	t.Run("Generate before payment", func(t *testing.T) {
		env := newTestEnv()
		env.invoices.On("GenerateInvoice", mock.Anything, int64(1), int64(7)).
			Return(nil, invoice.ErrPaymentNotCompleted)

		w, body := env.customer(t, http.MethodPost, "/api/v1/invoices/generate", gin.H{"order_id": 7})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "PAYMENT_NOT_COMPLETED", body.Error.Code)
	})

	t.Run("Generate twice", func(t *testing.T) {
		env := newTestEnv()
		env.invoices.On("GenerateInvoice", mock.Anything, int64(1), int64(7)).
			Return(nil, invoice.ErrInvoiceAlreadyExists)

		w, _ := env.customer(t, http.MethodPost, "/api/v1/invoices/generate", gin.H{"order_id": 7})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Get absent", func(t *testing.T) {
		env := newTestEnv()
		env.invoices.On("GetInvoiceByOrder", mock.Anything, int64(1), int64(7)).Return(nil, nil)

		w, body := env.customer(t, http.MethodGet, "/api/v1/invoices/order/7", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "INVOICE_NOT_FOUND", body.Error.Code)
	})
}

func TestAdminHandlers(t *testing.T) {
	t.Run("Customer forbidden", func(t *testing.T) {
		env := newTestEnv()

		w, _ := env.customer(t, http.MethodGet, "/api/v1/admin/orders", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("List orders", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("ListAllOrders", mock.Anything).Return([]*order.OrderSummary{{ID: 1}}, nil)

		w, _ := env.do(t, http.MethodGet, "/api/v1/admin/orders", nil, 99, utils.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Update order status", func(t *testing.T) {
		env := newTestEnv()
		env.orders.On("UpdateOrderStatus", mock.Anything, order.StatusPatch{OrderID: 7, Status: order.StatusShipped}).
			Return(nil)

		w, _ := env.do(t, http.MethodPatch, "/api/v1/admin/orders/7/status", gin.H{"status": "shipped"}, 99, utils.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
		env.orders.AssertExpectations(t)
	})

	t.Run("Refund", func(t *testing.T) {
		env := newTestEnv()
		env.payments.On("RefundPayment", mock.Anything, int64(3)).Return(&payment.StatusUpdateResult{
			Payment:            &payment.Payment{ID: 3, Status: payment.StatusRefunded},
			OrderPaymentStatus: order.PaymentStatusPending,
		}, nil)

		w, _ := env.do(t, http.MethodPatch, "/api/v1/admin/payments/3/refund", nil, 99, utils.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Reissue missing", func(t *testing.T) {
		env := newTestEnv()
		env.invoices.On("ReissueInvoice", mock.Anything, int64(7)).Return(nil, invoice.ErrInvoiceNotFound)

		w, _ := env.do(t, http.MethodPost, "/api/v1/admin/invoices/order/7/reissue", nil, 99, utils.RoleAdmin)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
