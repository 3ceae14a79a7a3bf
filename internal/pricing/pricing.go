// Package pricing computes cart totals and discount composition.
package pricing

import (
	"inkwell/internal/domain"
)

const (
	BundleDiscountRate = 0.10
	// BundleMinIndividual is the number of distinct individual services that
	// unlocks the bundle discount.
	BundleMinIndividual = 2
)

type Summary struct {
	ItemCount          int     `json:"itemCount"`
	Subtotal           float64 `json:"subtotal"`
	IndividualCount    int     `json:"individualCount"`
	IndividualSubtotal float64 `json:"individualSubtotal"`
	BundleDiscount     float64 `json:"bundleDiscount"`
	Total              float64 `json:"total"`
}

func Summarize(items []domain.CartItem) Summary {
	var s Summary
	for _, item := range items {
		line := item.LineTotal()
		s.ItemCount += item.Quantity
		s.Subtotal += line
		if item.Service.Type == domain.ServiceTypeIndividual {
			s.IndividualCount++
			s.IndividualSubtotal += line
		}
	}

	s.Subtotal = domain.RoundCents(s.Subtotal)
	s.IndividualSubtotal = domain.RoundCents(s.IndividualSubtotal)
	s.BundleDiscount = BundleDiscount(s.IndividualCount, s.IndividualSubtotal)
	s.Total = Floor(s.Subtotal - s.BundleDiscount)

	return s
}

func BundleDiscount(individualCount int, individualSubtotal float64) float64 {
	if individualCount < BundleMinIndividual {
		return 0
	}
	return domain.RoundCents(individualSubtotal * BundleDiscountRate)
}

// ApplyPromo subtracts a promo discount from a total that already carries
// the bundle discount.
func ApplyPromo(total, promoDiscount float64) float64 {
	return Floor(total - promoDiscount)
}

// Floor clamps negative totals to zero.
func Floor(v float64) float64 {
	if v < 0 {
		return 0
	}
	return domain.RoundCents(v)
}
