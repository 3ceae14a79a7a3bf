package domain

import (
	"strings"
	"time"
)

const (
	MaxCartItemQuantity = 99
	GuestSessionPrefix  = "guest_"
	userOwnerPrefix     = "user:"
)

type CartItem struct {
	ID        uint      `json:"id"`
	OwnerKey  string    `json:"ownerKey"`
	ServiceID uint      `json:"serviceId"`
	Quantity  int       `json:"quantity"`
	Service   Service   `json:"service"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i CartItem) LineTotal() float64 {
	return RoundCents(i.Service.Price * float64(i.Quantity))
}

type Cart struct {
	OwnerKey string     `json:"ownerKey"`
	Items    []CartItem `json:"items"`
}

// UserOwnerKey is the cart key of an authenticated user.
func UserOwnerKey(userID string) string {
	return userOwnerPrefix + userID
}

func IsGuestOwnerKey(key string) bool {
	return strings.HasPrefix(key, GuestSessionPrefix)
}
