package domain

import "time"

const (
	OrderEventCompleted = "order.completed"
	OrderEventFailed    = "order.failed"
	OrderEventCancelled = "order.cancelled"
)

// OrderEvent is emitted after a status transition has been committed.
type OrderEvent struct {
	EventID    string      `json:"eventId"`
	EventType  string      `json:"eventType"`
	OrderID    uint        `json:"orderId"`
	Status     OrderStatus `json:"status"`
	Previous   OrderStatus `json:"previousStatus"`
	Amount     float64     `json:"amount"`
	Currency   string      `json:"currency"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// EventTypeFor maps a target status to its queue name. Pending has none.
func EventTypeFor(status OrderStatus) (string, bool) {
	switch status {
	case OrderStatusCompleted:
		return OrderEventCompleted, true
	case OrderStatusFailed:
		return OrderEventFailed, true
	case OrderStatusCancelled:
		return OrderEventCancelled, true
	}
	return "", false
}
