package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/internal/order/service"

	"go.uber.org/zap"
)

const (
	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	EventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	EventCaptureRefunded  = "PAYMENT.CAPTURE.REFUNDED"
	EventOrderApproved    = "CHECKOUT.ORDER.APPROVED"
	EventOrderCompleted   = "CHECKOUT.ORDER.COMPLETED"
)

type Event struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  json.RawMessage `json:"resource"`
}

type resource struct {
	ID                string `json:"id"`
	SupplementaryData struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OrderFinder interface {
	FindByPayPalOrderID(ctx context.Context, paypalOrderID string) (*domain.Order, error)
}

type Transitioner interface {
	Transition(ctx context.Context, req service.TransitionRequest) (*domain.Order, error)
}

type EventLog interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID, eventType string) error
}

// Reconciler applies PayPal webhook events to local orders.
type Reconciler struct {
	orders      OrderFinder
	transitions Transitioner
	events      EventLog
	logger      *zap.Logger
}

func NewReconciler(orders OrderFinder, transitions Transitioner, events EventLog, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		orders:      orders,
		transitions: transitions,
		events:      events,
		logger:      logger,
	}
}

// Handle never returns an error. Failures are reported in the Result.
func (r *Reconciler) Handle(ctx context.Context, event Event) Result {
	logger := r.logger.With(zap.String("eventId", event.ID), zap.String("eventType", event.EventType))

	if event.ID != "" {
		seen, err := r.events.Exists(ctx, event.ID)
		if err != nil {
			logger.Warn("webhook dedup lookup failed, processing anyway", zap.Error(err))
		} else if seen {
			logger.Info("webhook event already processed")
			return Result{Success: true, Message: "event already processed"}
		}
	}

	result := r.dispatch(ctx, event, logger)

	if result.Success && event.ID != "" {
		if err := r.events.Record(ctx, event.ID, event.EventType); err != nil {
			logger.Warn("failed to record webhook event", zap.Error(err))
		}
	}
	return result
}

func (r *Reconciler) dispatch(ctx context.Context, event Event, logger *zap.Logger) Result {
	switch event.EventType {
	case EventCaptureCompleted:
		return r.apply(ctx, event, domain.OrderStatusCompleted, logger)
	case EventCaptureDenied:
		return r.apply(ctx, event, domain.OrderStatusFailed, logger)
	case EventCaptureRefunded:
		return r.apply(ctx, event, domain.OrderStatusCancelled, logger)
	case EventOrderApproved, EventOrderCompleted:
		logger.Info("checkout event received", zap.String("paypalOrderId", paypalOrderID(event)))
		return Result{Success: true, Message: "event acknowledged"}
	default:
		logger.Info("unhandled webhook event type")
		return Result{Success: true, Message: "event type not handled"}
	}
}

// apply moves the referenced order to target when the transition table
// allows it. Events that arrive for an order already in target, or whose
// transition is not allowed, change nothing.
func (r *Reconciler) apply(ctx context.Context, event Event, target domain.OrderStatus, logger *zap.Logger) Result {
	ppID := paypalOrderID(event)
	if ppID == "" {
		logger.Warn("webhook event has no paypal order id")
		return Result{Success: false, Message: "missing PayPal order id"}
	}
	logger = logger.With(zap.String("paypalOrderId", ppID))

	order, err := r.orders.FindByPayPalOrderID(ctx, ppID)
	if err != nil {
		logger.Warn("webhook order lookup failed", zap.Error(err))
		return Result{Success: false, Message: err.Error()}
	}
	logger = logger.With(zap.Uint("orderId", order.ID))

	if order.Status == target {
		logger.Info("order already in target status", zap.String("status", target.String()))
		return Result{Success: true, Message: fmt.Sprintf("order already %s", target)}
	}
	if !domain.CanTransition(order.Status, target) {
		logger.Warn("webhook transition not allowed, ignoring",
			zap.String("from", order.Status.String()), zap.String("to", target.String()))
		return Result{Success: true, Message: fmt.Sprintf("order is %s, ignored", order.Status)}
	}

	_, err = r.transitions.Transition(ctx, service.TransitionRequest{
		OrderID:  order.ID,
		Expected: order.Status,
		Next:     target,
		Source:   "webhook",
	})
	if errors.Is(err, domain.ErrStatusMismatch) {
		logger.Info("order changed concurrently, ignoring webhook transition")
		return Result{Success: true, Message: "order changed concurrently"}
	}
	if err != nil {
		logger.Error("webhook transition failed", zap.Error(err))
		return Result{Success: false, Message: err.Error()}
	}

	logger.Info("order updated from webhook", zap.String("status", target.String()))
	return Result{Success: true, Message: fmt.Sprintf("order %s", target)}
}

// paypalOrderID finds the PayPal order id. Capture resources carry it in
// supplementary_data; checkout resources are the order itself.
func paypalOrderID(event Event) string {
	var res resource
	if len(event.Resource) == 0 || json.Unmarshal(event.Resource, &res) != nil {
		return ""
	}
	switch event.EventType {
	case EventCaptureCompleted, EventCaptureDenied, EventCaptureRefunded:
		return res.SupplementaryData.RelatedIDs.OrderID
	default:
		return res.ID
	}
}
