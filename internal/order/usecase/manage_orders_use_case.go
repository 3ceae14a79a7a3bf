package usecase

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/auth"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/order/repository"
	"inkwell/internal/order/service"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type OrderStore interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindAll(ctx context.Context, filter repository.Filter) ([]domain.Order, int, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Delete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*domain.OrderStatistics, error)
}

type OrderPage struct {
	Orders []domain.Order
	Total  int
	Limit  int
	Offset int
}

type ManageOrdersUseCase struct {
	orders      OrderStore
	transitions StatusTransitioner
	logger      *zap.Logger
}

func NewManageOrdersUseCase(orders OrderStore, transitions StatusTransitioner, logger *zap.Logger) *ManageOrdersUseCase {
	return &ManageOrdersUseCase{
		orders:      orders,
		transitions: transitions,
		logger:      logger,
	}
}

// GetByID lets customers read their own orders and admins read any order.
func (uc *ManageOrdersUseCase) GetByID(ctx context.Context, id uint, caller auth.Identity) (*domain.Order, error) {
	order, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() || (caller.IsAuthenticated() && order.BelongsTo(caller.UserID)) {
		return order, nil
	}
	if !caller.IsAuthenticated() {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	return nil, apperrors.NewForbiddenError("order belongs to another user")
}

func (uc *ManageOrdersUseCase) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return uc.orders.FindByUser(ctx, userID)
}

func (uc *ManageOrdersUseCase) GetAll(ctx context.Context, status string, limit, offset int) (*OrderPage, error) {
	var details []apperrors.ValidationDetail
	if status != "" && !domain.OrderStatus(status).IsValid() {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "must be one of: pending completed cancelled failed"})
	}
	if limit < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "must be at least 0"})
	}
	if offset < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "offset", Message: "must be at least 0"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	orders, total, err := uc.orders.FindAll(ctx, repository.Filter{
		Status: domain.OrderStatus(status),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: orders, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateStatus is the admin override. It still follows the transition table.
func (uc *ManageOrdersUseCase) UpdateStatus(ctx context.Context, id uint, next domain.OrderStatus) (*domain.Order, error) {
	if !next.IsValid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: "must be one of: pending completed cancelled failed",
		})
	}

	order, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		return order, nil
	}

	updated, err := uc.transitions.Transition(ctx, service.TransitionRequest{
		OrderID:  id,
		Expected: order.Status,
		Next:     next,
		Source:   "admin",
	})
	if errors.Is(err, domain.ErrStatusMismatch) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %d changed status concurrently, reload and retry", id))
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the row outright. It is the manual cleanup path for orders
// PayPal never saw.
func (uc *ManageOrdersUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("order deleted", zap.Uint("orderId", id))
	return nil
}

func (uc *ManageOrdersUseCase) GetStatistics(ctx context.Context) (*domain.OrderStatistics, error) {
	return uc.orders.Statistics(ctx)
}
