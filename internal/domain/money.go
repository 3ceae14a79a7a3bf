package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders an amount the way PayPal expects it: two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(RoundCents(v), 'f', 2, 64)
}

// ParseAmount accepts a positive decimal string with at most two fraction digits.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("amount %q must be positive", s)
	}
	return RoundCents(v), nil
}
