package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"inkwell/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// Queues lists every queue an order event can be routed to. The queue name
// is the event type.
var Queues = []string{
	domain.OrderEventCompleted,
	domain.OrderEventFailed,
	domain.OrderEventCancelled,
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends order events to RabbitMQ through the default exchange.
// It owns the connection it was built from.
type RabbitPublisher struct {
	conn   io.Closer
	ch     channel
	logger *zap.Logger
}

// NewRabbitPublisher opens a channel and declares the order queues so a
// publish never fails on missing infrastructure.
func NewRabbitPublisher(conn *amqp.Connection, logger *zap.Logger) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	for _, q := range Queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("declare %s: %w", q, err)
		}
	}
	return &RabbitPublisher{conn: conn, ch: ch, logger: logger}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(pubCtx, "", event.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Type:         event.EventType,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType, err)
	}

	p.logger.Debug("order event published",
		zap.String("eventType", event.EventType),
		zap.Uint("orderId", event.OrderID))
	return nil
}

// Close closes the channel, then the connection.
func (p *RabbitPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	p.logger.Info("order event",
		zap.String("eventId", event.EventID),
		zap.String("eventType", event.EventType),
		zap.Uint("orderId", event.OrderID),
		zap.String("status", event.Status.String()),
		zap.String("previousStatus", event.Previous.String()))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
