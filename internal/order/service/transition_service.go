package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateStatusIf(ctx context.Context, tx *sql.Tx, id uint, expected, next domain.OrderStatus) error
	SetPayerID(ctx context.Context, tx *sql.Tx, id uint, payerID string) error
}

type PromoUsageRecorder interface {
	RecordUse(ctx context.Context, tx *sql.Tx, code string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

// Notifier sends the customer emails that follow a committed transition.
// Implementations are best-effort.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order domain.Order)
	SendRefundNotification(ctx context.Context, order domain.Order)
}

// TransitionRequest asks for expected -> next. PayerID, when set, is stored
// in the same transaction.
type TransitionRequest struct {
	OrderID  uint
	Expected domain.OrderStatus
	Next     domain.OrderStatus
	PayerID  string
	Source   string
}

type TransitionService struct {
	db               TransactionManager
	orderRepo        OrderRepository
	promos           PromoUsageRecorder
	publisher        EventPublisher
	notifier         Notifier
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewTransitionService(
	db TransactionManager,
	orderRepo OrderRepository,
	promos PromoUsageRecorder,
	publisher EventPublisher,
	notifier Notifier,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *TransitionService {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	if maxRetryAttempts <= 0 {
		maxRetryAttempts = 1
	}
	return &TransitionService{
		db:               db,
		orderRepo:        orderRepo,
		promos:           promos,
		publisher:        publisher,
		notifier:         notifier,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// Transition applies one status change atomically and retries on deadlock.
// It returns domain.ErrStatusMismatch when the order is no longer in
// req.Expected, and a ConflictError when the table forbids the edge.
func (s *TransitionService) Transition(ctx context.Context, req TransitionRequest) (*domain.Order, error) {
	if !domain.CanTransition(req.Expected, req.Next) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot move order from %s to %s", req.Expected, req.Next))
	}

	var order *domain.Order
	err := withDeadlockRetry(ctx, s.maxRetryAttempts, s.logger.With(zap.Uint("orderId", req.OrderID)), func() error {
		var err error
		order, err = s.transitionOnce(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, *order, req.Expected)
	return order, nil
}

func (s *TransitionService) transitionOnce(ctx context.Context, req TransitionRequest) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, apperrors.NewInternalError("beginning order transaction", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != req.Expected {
		return nil, domain.ErrStatusMismatch
	}

	if err := s.orderRepo.UpdateStatusIf(txCtx, tx, req.OrderID, req.Expected, req.Next); err != nil {
		return nil, err
	}

	if req.PayerID != "" {
		if err := s.orderRepo.SetPayerID(txCtx, tx, req.OrderID, req.PayerID); err != nil {
			return nil, err
		}
		payerID := req.PayerID
		order.PayPalPayerID = &payerID
	}

	if req.Next == domain.OrderStatusCompleted && order.PromoCode != nil && *order.PromoCode != "" {
		if err := s.promos.RecordUse(txCtx, tx, *order.PromoCode); err != nil {
			if _, ok := apperrors.IsNotFoundError(err); !ok {
				return nil, err
			}
			s.logger.Warn("promo code on order no longer exists", zap.Uint("orderId", order.ID), zap.String("code", *order.PromoCode))
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", req.OrderID), zap.Error(err))
		return nil, apperrors.NewInternalError("committing order transaction", err)
	}

	order.Status = req.Next
	s.logger.Info("order status changed",
		zap.Uint("orderId", order.ID),
		zap.String("from", string(req.Expected)),
		zap.String("to", string(req.Next)),
		zap.String("source", req.Source),
	)
	return order, nil
}

func (s *TransitionService) afterCommit(ctx context.Context, order domain.Order, previous domain.OrderStatus) {
	if eventType, ok := domain.EventTypeFor(order.Status); ok {
		event := domain.OrderEvent{
			EventID:    uuid.NewString(),
			EventType:  eventType,
			OrderID:    order.ID,
			Status:     order.Status,
			Previous:   previous,
			Amount:     order.Amount,
			Currency:   order.Currency,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish order event", zap.Uint("orderId", order.ID), zap.String("eventType", eventType), zap.Error(err))
		}
	}

	switch order.Status {
	case domain.OrderStatusCompleted:
		s.notifier.SendOrderConfirmation(ctx, order)
	case domain.OrderStatusCancelled:
		s.notifier.SendRefundNotification(ctx, order)
	}
}
