package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/errors"
)

type MySQLPromoCodeRepository struct {
	db *sql.DB
}

func NewMySQLPromoCodeRepository(db *sql.DB) *MySQLPromoCodeRepository {
	return &MySQLPromoCodeRepository{db: db}
}

// FindByCode matches case-insensitively; codes are stored upper-case.
func (r *MySQLPromoCodeRepository) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	query := `
		SELECT id, code, discountType, discountValue, minPurchase, maxUses, usedCount,
		       expiresAt, isActive, createdAt, updatedAt
		FROM PromoCodes
		WHERE code = ?`

	var (
		p           domain.PromoCode
		typ         string
		minPurchase sql.NullFloat64
		maxUses     sql.NullInt64
		expiresAt   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&p.ID, &p.Code, &typ, &p.DiscountValue, &minPurchase, &maxUses, &p.UsedCount,
		&expiresAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("promo code %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying promo code: %w", err)
	}

	p.DiscountType = domain.DiscountType(typ)
	if minPurchase.Valid {
		v := minPurchase.Float64
		p.MinPurchase = &v
	}
	if maxUses.Valid {
		v := int(maxUses.Int64)
		p.MaxUses = &v
	}
	if expiresAt.Valid {
		v := expiresAt.Time
		p.ExpiresAt = &v
	}

	return &p, nil
}

// IncrementUsedCount runs inside the caller's transaction.
func (r *MySQLPromoCodeRepository) IncrementUsedCount(ctx context.Context, tx *sql.Tx, code string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE PromoCodes SET usedCount = usedCount + 1 WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Errorf("incrementing promo code usage: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("promo code %s not found", code))
	}
	return nil
}
