package promo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"

	"go.uber.org/zap"
)

type Repository interface {
	FindByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	IncrementUsedCount(ctx context.Context, tx *sql.Tx, code string) error
}

// Result is what the checkout form shows next to the promo field.
type Result struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount"`
	Message        string  `json:"message"`
}

type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Validate never fails for business reasons: an unusable code is reported
// through Result.Valid and Result.Message.
func (s *Service) Validate(ctx context.Context, code string, amount float64) (*Result, error) {
	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return &Result{Message: "Invalid promo code"}, nil
		}
		return nil, err
	}

	switch {
	case !promo.IsActive:
		return &Result{Message: "This promo code is no longer active"}, nil
	case promo.IsExpired(s.now()):
		return &Result{Message: "This promo code has expired"}, nil
	case promo.IsExhausted():
		return &Result{Message: "This promo code has reached its usage limit"}, nil
	case promo.BelowMinimum(amount):
		return &Result{Message: fmt.Sprintf("Minimum purchase of $%s required", domain.FormatAmount(*promo.MinPurchase))}, nil
	}

	discount := promo.DiscountFor(amount)
	s.logger.Debug("promo code applied",
		zap.String("code", promo.Code),
		zap.Float64("amount", amount),
		zap.Float64("discount", discount),
	)

	return &Result{
		Valid:          true,
		DiscountAmount: discount,
		Message:        fmt.Sprintf("Promo code applied: $%s off", domain.FormatAmount(discount)),
	}, nil
}

// RecordUse counts one redemption inside tx.
func (s *Service) RecordUse(ctx context.Context, tx *sql.Tx, code string) error {
	return s.repo.IncrementUsedCount(ctx, tx, code)
}
