package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

const DefaultCurrency = "AUD"

// ErrStatusMismatch is returned by a conditional status update when the order
// is no longer in the expected status.
var ErrStatusMismatch = errors.New("order status changed concurrently")

// orderTransitions lists every status change an order may go through.
// cancelled and failed have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusCompleted, OrderStatusFailed},
	OrderStatusCompleted: {OrderStatusCancelled},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusFailed
}

func (s OrderStatus) String() string {
	return string(s)
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID             uint
	UserID         *string
	PackageName    string
	Amount         float64
	Currency       string
	Status         OrderStatus
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	PromoCode      *string
	DiscountAmount float64
	PayPalOrderID  *string
	PayPalPayerID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BelongsTo reports whether the order was placed by the given user.
func (o Order) BelongsTo(userID string) bool {
	return o.UserID != nil && *o.UserID == userID
}

type OrderStatistics struct {
	TotalOrders     int
	PendingOrders   int
	CompletedOrders int
	CancelledOrders int
	FailedOrders    int
	TotalRevenue    float64
}
