package domain

import (
	"math"
	"time"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type PromoCode struct {
	ID            uint
	Code          string
	DiscountType  DiscountType
	DiscountValue float64
	MinPurchase   *float64
	MaxUses       *int
	UsedCount     int
	ExpiresAt     *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p PromoCode) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

func (p PromoCode) IsExhausted() bool {
	return p.MaxUses != nil && p.UsedCount >= *p.MaxUses
}

func (p PromoCode) BelowMinimum(amount float64) bool {
	return p.MinPurchase != nil && amount < *p.MinPurchase
}

// DiscountFor never returns more than amount.
func (p PromoCode) DiscountFor(amount float64) float64 {
	var discount float64
	switch p.DiscountType {
	case DiscountTypeFixed:
		discount = p.DiscountValue
	case DiscountTypePercentage:
		discount = amount * p.DiscountValue / 100
	}
	discount = math.Min(math.Max(discount, 0), amount)
	return RoundCents(discount)
}
