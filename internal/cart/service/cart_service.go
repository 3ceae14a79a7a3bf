package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/cart/cache"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/pricing"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type CartRepository interface {
	FindByOwner(ctx context.Context, ownerKey string) ([]domain.CartItem, error)
	AddOrIncrement(ctx context.Context, ownerKey string, serviceID uint, quantity, maxQuantity int) error
	UpdateQuantity(ctx context.Context, ownerKey string, itemID uint, quantity int) error
	Delete(ctx context.Context, ownerKey string, itemID uint) error
	DeleteByOwner(ctx context.Context, ownerKey string) error
	MoveOwner(ctx context.Context, tx *sql.Tx, fromKey, toKey string, maxQuantity int) (int, error)
}

type ServiceCatalog interface {
	GetActiveService(ctx context.Context, id uint) (*domain.Service, error)
}

type MergeFlags interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// CartView is a cart together with its computed totals.
type CartView struct {
	Cart    domain.Cart
	Summary pricing.Summary
}

type CartService struct {
	db      TransactionManager
	repo    CartRepository
	cache   cache.CartCache
	catalog ServiceCatalog
	flags   MergeFlags
	logger  *zap.Logger
	sfg     singleflight.Group
	gens    generations
}

func NewCartService(
	db TransactionManager,
	repo CartRepository,
	cartCache cache.CartCache,
	catalog ServiceCatalog,
	flags MergeFlags,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		db:      db,
		repo:    repo,
		cache:   cartCache,
		catalog: catalog,
		flags:   flags,
		logger:  logger,
	}
}

// GetCart reads through the cache. Concurrent misses for one owner share a
// single repository read, and a read that raced a write is not cached.
func (s *CartService) GetCart(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(ownerKey, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, ownerKey)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cart cache get failed", zap.String("owner", ownerKey), zap.Error(err))
		}

		seen := s.gens.current(ownerKey)
		items, err := s.repo.FindByOwner(ctx, ownerKey)
		if err != nil {
			return nil, err
		}
		cart = &domain.Cart{OwnerKey: ownerKey, Items: items}

		filled := s.gens.fillIf(ownerKey, seen, func() {
			if err := s.cache.Set(ctx, ownerKey, cart); err != nil {
				s.logger.Warn("cart cache set failed", zap.String("owner", ownerKey), zap.Error(err))
			}
		})
		if !filled {
			s.logger.Debug("cart changed during read; not cached", zap.String("owner", ownerKey))
		}

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) GetTotal(ctx context.Context, ownerKey string) (*CartView, error) {
	cart, err := s.GetCart(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: *cart, Summary: pricing.Summarize(cart.Items)}, nil
}

func (s *CartService) AddToCart(ctx context.Context, ownerKey string, serviceID uint, quantity int) error {
	if quantity < 1 || quantity > domain.MaxCartItemQuantity {
		return apperrors.NewValidationError("invalid quantity", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: fmt.Sprintf("must be between 1 and %d", domain.MaxCartItemQuantity),
		})
	}

	if _, err := s.catalog.GetActiveService(ctx, serviceID); err != nil {
		return err
	}

	if err := s.repo.AddOrIncrement(ctx, ownerKey, serviceID, quantity, domain.MaxCartItemQuantity); err != nil {
		return err
	}

	s.logger.Info("cart item added", zap.String("owner", ownerKey), zap.Uint("serviceId", serviceID), zap.Int("quantity", quantity))
	s.invalidate(ownerKey)
	return nil
}

// UpdateQuantity removes the line when quantity drops to zero or below.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerKey string, itemID uint, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, ownerKey, itemID)
	}

	if quantity > domain.MaxCartItemQuantity {
		return apperrors.NewValidationError("invalid quantity", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: fmt.Sprintf("must be at most %d", domain.MaxCartItemQuantity),
		})
	}

	if err := s.repo.UpdateQuantity(ctx, ownerKey, itemID, quantity); err != nil {
		return err
	}

	s.invalidate(ownerKey)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, ownerKey string, itemID uint) error {
	if err := s.repo.Delete(ctx, ownerKey, itemID); err != nil {
		return err
	}

	s.invalidate(ownerKey)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, ownerKey string) error {
	if err := s.repo.DeleteByOwner(ctx, ownerKey); err != nil {
		return err
	}

	s.invalidate(ownerKey)
	return nil
}

// MergeGuestCart moves the guest session's cart into the user's cart once per
// login. It reports whether this call performed the merge.
func (s *CartService) MergeGuestCart(ctx context.Context, guestSessionID, userID string) (bool, error) {
	if guestSessionID == "" {
		return false, nil
	}

	acquired, err := s.flags.Acquire(ctx, guestSessionID)
	if err != nil {
		return false, err
	}
	if !acquired {
		s.logger.Debug("guest cart already merged", zap.String("session", guestSessionID), zap.String("userId", userID))
		return false, nil
	}

	userKey := domain.UserOwnerKey(userID)
	moved, err := s.moveCart(ctx, guestSessionID, userKey)
	if err != nil {
		// Let the next login retry the merge.
		if releaseErr := s.flags.Release(context.Background(), guestSessionID); releaseErr != nil {
			s.logger.Error("failed to release merge flag", zap.String("session", guestSessionID), zap.Error(releaseErr))
		}
		return false, err
	}

	s.invalidate(guestSessionID)
	s.invalidate(userKey)
	s.logger.Info("guest cart merged", zap.String("session", guestSessionID), zap.String("userId", userID), zap.Int("lines", moved))
	return true, nil
}

// ResetMerge is called on logout.
func (s *CartService) ResetMerge(ctx context.Context, guestSessionID string) error {
	if guestSessionID == "" {
		return nil
	}
	return s.flags.Release(ctx, guestSessionID)
}

func (s *CartService) moveCart(ctx context.Context, fromKey, toKey string) (int, error) {
	txCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return 0, fmt.Errorf("beginning merge transaction: %w", err)
	}
	defer tx.Rollback()

	moved, err := s.repo.MoveOwner(txCtx, tx, fromKey, toKey, domain.MaxCartItemQuantity)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing merge transaction: %w", err)
	}
	return moved, nil
}

func (s *CartService) invalidate(ownerKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.gens.bump(ownerKey, func() {
		if err := s.cache.Delete(ctx, ownerKey); err != nil {
			s.logger.Warn("cart cache invalidate failed", zap.String("owner", ownerKey), zap.Error(err))
		}
	})
}
