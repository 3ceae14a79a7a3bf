package usecase

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/order/service"
	"inkwell/internal/paypal"

	"go.uber.org/zap"
)

type OrderReader interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

type CaptureGateway interface {
	CaptureOrder(ctx context.Context, paypalOrderID string) (*paypal.CapturedOrder, error)
}

type StatusTransitioner interface {
	Transition(ctx context.Context, req service.TransitionRequest) (*domain.Order, error)
}

type CartClearer interface {
	ClearCart(ctx context.Context, ownerKey string) error
}

type CaptureResult struct {
	Success bool               `json:"success"`
	OrderID uint               `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
}

type CaptureOrderUseCase struct {
	orders      OrderReader
	gateway     CaptureGateway
	transitions StatusTransitioner
	carts       CartClearer
	logger      *zap.Logger
}

func NewCaptureOrderUseCase(
	orders OrderReader,
	gateway CaptureGateway,
	transitions StatusTransitioner,
	carts CartClearer,
	logger *zap.Logger,
) *CaptureOrderUseCase {
	return &CaptureOrderUseCase{
		orders:      orders,
		gateway:     gateway,
		transitions: transitions,
		carts:       carts,
		logger:      logger,
	}
}

var errInvalidPaymentParameters = apperrors.NewValidationError("Invalid payment parameters")

// CaptureOrder settles the payment after the buyer returns from PayPal.
// ownerKey is the caller's cart, cleared once the order is completed.
func (uc *CaptureOrderUseCase) CaptureOrder(ctx context.Context, orderID uint, token, ownerKey string) (*CaptureResult, error) {
	if orderID == 0 || token == "" {
		return nil, errInvalidPaymentParameters
	}
	logger := uc.logger.With(zap.Uint("orderId", orderID), zap.String("paypalOrderId", token))

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PayPalOrderID == nil || *order.PayPalOrderID != token {
		logger.Warn("capture token does not match order")
		return nil, errInvalidPaymentParameters
	}

	switch order.Status {
	case domain.OrderStatusCompleted:
		logger.Info("order already completed, skipping capture")
		uc.clearCart(ctx, ownerKey, logger)
		return &CaptureResult{Success: true, OrderID: orderID, Status: order.Status}, nil
	case domain.OrderStatusPending:
	default:
		return nil, apperrors.NewConflictError(fmt.Sprintf("order is %s", order.Status))
	}

	captured, err := uc.gateway.CaptureOrder(ctx, token)
	if err != nil {
		logger.Error("paypal capture failed; order status unchanged", zap.Error(err))
		return nil, apperrors.NewGatewayError("failed to capture PayPal payment", err)
	}

	if captured.Status != paypal.StatusCompleted {
		logger.Warn("capture did not complete", zap.String("captureStatus", captured.Status))
		_, err := uc.transitions.Transition(ctx, service.TransitionRequest{
			OrderID:  orderID,
			Expected: domain.OrderStatusPending,
			Next:     domain.OrderStatusFailed,
			Source:   "capture",
		})
		if err != nil && !errors.Is(err, domain.ErrStatusMismatch) {
			logger.Error("failed to mark order failed", zap.Error(err))
		}
		return nil, apperrors.NewConflictError(fmt.Sprintf("payment was not completed (status %s)", captured.Status))
	}

	updated, err := uc.transitions.Transition(ctx, service.TransitionRequest{
		OrderID:  orderID,
		Expected: domain.OrderStatusPending,
		Next:     domain.OrderStatusCompleted,
		PayerID:  captured.PayerID,
		Source:   "capture",
	})
	if errors.Is(err, domain.ErrStatusMismatch) {
		// The webhook may have completed the order while we were capturing.
		updated, err = uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if updated.Status != domain.OrderStatusCompleted {
			return nil, apperrors.NewConflictError(fmt.Sprintf("order is %s", updated.Status))
		}
		logger.Info("order completed concurrently by webhook")
	} else if err != nil {
		return nil, err
	}

	uc.clearCart(ctx, ownerKey, logger)

	return &CaptureResult{Success: true, OrderID: orderID, Status: updated.Status}, nil
}

func (uc *CaptureOrderUseCase) clearCart(ctx context.Context, ownerKey string, logger *zap.Logger) {
	if ownerKey == "" {
		return
	}
	if err := uc.carts.ClearCart(ctx, ownerKey); err != nil {
		logger.Warn("failed to clear cart after payment", zap.String("owner", ownerKey), zap.Error(err))
	}
}
