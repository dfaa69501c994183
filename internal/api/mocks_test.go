package api

import (
	"context"

	"storefront-be/internal/cart"
	"storefront-be/internal/invoice"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"

	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddToCart(ctx context.Context, params cart.AddToCartParams) (*cart.AddToCartResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.AddToCartResult), args.Error(1)
}

func (m *MockCartService) GetCartItems(ctx context.Context, userID int64) ([]*cart.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartLine), args.Error(1)
}

func (m *MockCartService) UpdateCartItem(ctx context.Context, params cart.UpdateCartItemParams) (bool, error) {
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartService) RemoveCartItem(ctx context.Context, userID, cartID int64) (bool, error) {
	args := m.Called(ctx, userID, cartID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, params order.PlaceOrderParams) (*order.PlaceOrderResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.PlaceOrderResult), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID int64) ([]*order.OrderSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.OrderSummary), args.Error(1)
}

func (m *MockOrderService) GetOrderDetails(ctx context.Context, userID, orderID int64) (*order.OrderDetails, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.OrderDetails), args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context) ([]*order.OrderSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.OrderSummary), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, patch order.StatusPatch) error {
	return m.Called(ctx, patch).Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) InitiatePayment(ctx context.Context, params payment.CreatePaymentParams) (*payment.CreatePaymentResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreatePaymentResult), args.Error(1)
}

func (m *MockPaymentService) UpdatePaymentStatus(ctx context.Context, update payment.StatusUpdate) (*payment.StatusUpdateResult, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StatusUpdateResult), args.Error(1)
}

func (m *MockPaymentService) GetPaymentsByOrder(ctx context.Context, userID, orderID int64) ([]*payment.Payment, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) ListAllPayments(ctx context.Context) ([]*payment.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) RefundPayment(ctx context.Context, paymentID int64) (*payment.StatusUpdateResult, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StatusUpdateResult), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GenerateInvoice(ctx context.Context, userID, orderID int64) (*invoice.Invoice, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceByOrder(ctx context.Context, userID, orderID int64) (*invoice.Invoice, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, orderID int64) (*invoice.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ReissueInvoice(ctx context.Context, orderID int64) (*invoice.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}
