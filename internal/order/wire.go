package order

import (
	"database/sql"

	"inkwell/internal/config"
	"inkwell/internal/order/controller"
	"inkwell/internal/order/repository"
	"inkwell/internal/order/service"
	"inkwell/internal/order/usecase"
	"inkwell/internal/paypal"
	"inkwell/internal/promo"

	"go.uber.org/zap"
)

type Module struct {
	Repository  *repository.MySQLOrderRepository
	Transitions *service.TransitionService
	Payments    *controller.PaymentController
	Orders      *controller.OrdersController
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	gateway *paypal.Client,
	promos *promo.Service,
	carts usecase.CartClearer,
	publisher service.EventPublisher,
	notifier service.Notifier,
	logger *zap.Logger,
) *Module {
	orderRepo := repository.NewMySQLOrderRepository(db)

	transitions := service.NewTransitionService(
		db,
		orderRepo,
		promos,
		publisher,
		notifier,
		logger,
		cfg.Order.TxTimeout,
		cfg.Order.MaxRetryAttempts,
	)

	create := usecase.NewCreateOrderUseCase(orderRepo, gateway, promos, cfg.Server.PublicBaseURL, cfg.PayPal.Currency, logger)
	capture := usecase.NewCaptureOrderUseCase(orderRepo, gateway, transitions, carts, logger)
	manage := usecase.NewManageOrdersUseCase(orderRepo, transitions, logger)

	return &Module{
		Repository:  orderRepo,
		Transitions: transitions,
		Payments:    controller.NewPaymentController(create, capture, logger),
		Orders:      controller.NewOrdersController(manage, logger),
	}
}
