package usecase

import (
	"context"

	"inkwell/internal/domain"
	"inkwell/internal/order/repository"
	"inkwell/internal/order/service"
	"inkwell/internal/paypal"
	"inkwell/internal/promo"
)

type mockOrderRepository struct {
	InsertFunc           func(ctx context.Context, order domain.Order) (uint, error)
	SetPayPalOrderIDFunc func(ctx context.Context, id uint, paypalOrderID string) error
	FindByIDFunc         func(ctx context.Context, id uint) (*domain.Order, error)
	FindAllFunc          func(ctx context.Context, filter repository.Filter) ([]domain.Order, int, error)
	FindByUserFunc       func(ctx context.Context, userID string) ([]domain.Order, error)
	DeleteFunc           func(ctx context.Context, id uint) error
	StatisticsFunc       func(ctx context.Context) (*domain.OrderStatistics, error)
}

func (m *mockOrderRepository) Insert(ctx context.Context, order domain.Order) (uint, error) {
	return m.InsertFunc(ctx, order)
}

func (m *mockOrderRepository) SetPayPalOrderID(ctx context.Context, id uint, paypalOrderID string) error {
	return m.SetPayPalOrderIDFunc(ctx, id, paypalOrderID)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderRepository) FindAll(ctx context.Context, filter repository.Filter) ([]domain.Order, int, error) {
	return m.FindAllFunc(ctx, filter)
}

func (m *mockOrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return m.FindByUserFunc(ctx, userID)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uint) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockOrderRepository) Statistics(ctx context.Context) (*domain.OrderStatistics, error) {
	return m.StatisticsFunc(ctx)
}

type mockGateway struct {
	CreateOrderFunc  func(ctx context.Context, in paypal.CreateOrderRequest) (*paypal.CreatedOrder, error)
	CaptureOrderFunc func(ctx context.Context, paypalOrderID string) (*paypal.CapturedOrder, error)
	calls            int
}

func (m *mockGateway) CreateOrder(ctx context.Context, in paypal.CreateOrderRequest) (*paypal.CreatedOrder, error) {
	m.calls++
	return m.CreateOrderFunc(ctx, in)
}

func (m *mockGateway) CaptureOrder(ctx context.Context, paypalOrderID string) (*paypal.CapturedOrder, error) {
	m.calls++
	return m.CaptureOrderFunc(ctx, paypalOrderID)
}

type mockPromoValidator struct {
	ValidateFunc func(ctx context.Context, code string, amount float64) (*promo.Result, error)
}

func (m *mockPromoValidator) Validate(ctx context.Context, code string, amount float64) (*promo.Result, error) {
	return m.ValidateFunc(ctx, code, amount)
}

type mockTransitioner struct {
	TransitionFunc func(ctx context.Context, req service.TransitionRequest) (*domain.Order, error)
	requests       []service.TransitionRequest
}

func (m *mockTransitioner) Transition(ctx context.Context, req service.TransitionRequest) (*domain.Order, error) {
	m.requests = append(m.requests, req)
	return m.TransitionFunc(ctx, req)
}

type mockCartClearer struct {
	cleared []string
}

func (m *mockCartClearer) ClearCart(ctx context.Context, ownerKey string) error {
	m.cleared = append(m.cleared, ownerKey)
	return nil
}
