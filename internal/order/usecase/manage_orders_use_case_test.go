package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkwell/internal/auth"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/order/repository"
	"inkwell/internal/order/service"
)

func ownedOrder(userID string) *domain.Order {
	return &domain.Order{ID: 9, UserID: &userID, Status: domain.OrderStatusCompleted}
}

func TestGetByID_Permissions(t *testing.T) {
	repo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return ownedOrder("7"), nil
		},
	}
	uc := NewManageOrdersUseCase(repo, &mockTransitioner{}, zap.NewNop())
	ctx := context.Background()

	_, err := uc.GetByID(ctx, 9, auth.Identity{UserID: "7"})
	assert.NoError(t, err)

	_, err = uc.GetByID(ctx, 9, auth.Identity{UserID: "1", Role: auth.RoleAdmin})
	assert.NoError(t, err)

	_, err = uc.GetByID(ctx, 9, auth.Identity{UserID: "8"})
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	_, err = uc.GetByID(ctx, 9, auth.Identity{GuestSessionID: "guest_1_abc"})
	_, ok = apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestGetAll_ClampsPageSize(t *testing.T) {
	var got repository.Filter
	repo := &mockOrderRepository{
		FindAllFunc: func(ctx context.Context, filter repository.Filter) ([]domain.Order, int, error) {
			got = filter
			return []domain.Order{}, 0, nil
		},
	}
	uc := NewManageOrdersUseCase(repo, &mockTransitioner{}, zap.NewNop())

	page, err := uc.GetAll(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Limit)

	_, err = uc.GetAll(context.Background(), "completed", 1000, 10)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, got.Limit)
	assert.Equal(t, 10, got.Offset)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
}

func TestGetAll_RejectsUnknownStatus(t *testing.T) {
	uc := NewManageOrdersUseCase(&mockOrderRepository{}, &mockTransitioner{}, zap.NewNop())

	_, err := uc.GetAll(context.Background(), "shipped", 10, 0)

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_UsesCurrentStatusAsExpected(t *testing.T) {
	repo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return ownedOrder("7"), nil
		},
	}
	transitions := &mockTransitioner{
		TransitionFunc: func(ctx context.Context, req service.TransitionRequest) (*domain.Order, error) {
			o := ownedOrder("7")
			o.Status = req.Next
			return o, nil
		},
	}
	uc := NewManageOrdersUseCase(repo, transitions, zap.NewNop())

	order, err := uc.UpdateStatus(context.Background(), 9, domain.OrderStatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	require.Len(t, transitions.requests, 1)
	assert.Equal(t, domain.OrderStatusCompleted, transitions.requests[0].Expected)
	assert.Equal(t, "admin", transitions.requests[0].Source)
}

func TestUpdateStatus_ConcurrentChangeIsConflict(t *testing.T) {
	repo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return ownedOrder("7"), nil
		},
	}
	transitions := &mockTransitioner{
		TransitionFunc: func(ctx context.Context, req service.TransitionRequest) (*domain.Order, error) {
			return nil, domain.ErrStatusMismatch
		},
	}

	_, err := NewManageOrdersUseCase(repo, transitions, zap.NewNop()).UpdateStatus(context.Background(), 9, domain.OrderStatusCancelled)

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	repo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return ownedOrder("7"), nil
		},
	}
	transitions := &mockTransitioner{}

	order, err := NewManageOrdersUseCase(repo, transitions, zap.NewNop()).UpdateStatus(context.Background(), 9, domain.OrderStatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.Empty(t, transitions.requests)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	_, err := NewManageOrdersUseCase(&mockOrderRepository{}, &mockTransitioner{}, zap.NewNop()).UpdateStatus(context.Background(), 9, "shipped")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}
