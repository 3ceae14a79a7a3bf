package notification

import (
	"context"

	"inkwell/internal/domain"

	"go.uber.org/zap"
)

type LogStore interface {
	Insert(ctx context.Context, log domain.EmailLog) error
}

// Notifier sends customer emails and records every attempt. Failures are
// logged and never returned.
type Notifier struct {
	sender       Sender
	logs         LogStore
	supportEmail string
	logger       *zap.Logger
}

func NewNotifier(sender Sender, logs LogStore, supportEmail string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:       sender,
		logs:         logs,
		supportEmail: supportEmail,
		logger:       logger,
	}
}

func (n *Notifier) SendOrderConfirmation(ctx context.Context, order domain.Order) {
	n.send(ctx, TemplateOrderConfirmation, order)
}

func (n *Notifier) SendRefundNotification(ctx context.Context, order domain.Order) {
	n.send(ctx, TemplateRefundNotification, order)
}

func (n *Notifier) send(ctx context.Context, name string, order domain.Order) {
	logger := n.logger.With(zap.Uint("orderId", order.ID), zap.String("template", name))
	if order.CustomerEmail == "" {
		logger.Warn("order has no customer email, skipping notification")
		return
	}

	data := emailData{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		PackageName:  order.PackageName,
		Amount:       domain.FormatAmount(order.Amount),
		Discount:     domain.FormatAmount(order.DiscountAmount),
		Currency:     order.Currency,
		SupportEmail: n.supportEmail,
	}
	if order.PromoCode != nil {
		data.PromoCode = *order.PromoCode
	}

	orderID := order.ID
	entry := domain.EmailLog{
		OrderID:   &orderID,
		Recipient: order.CustomerEmail,
		Template:  name,
		Status:    domain.EmailStatusSent,
	}

	subject, body, err := render(name, data)
	if err == nil {
		entry.Subject = subject
		err = n.sender.Send(ctx, order.CustomerEmail, subject, body)
	}
	if err != nil {
		logger.Error("failed to send email", zap.Error(err))
		msg := err.Error()
		entry.Status = domain.EmailStatusFailed
		entry.ErrorMessage = &msg
	} else {
		logger.Info("email sent", zap.String("recipient", order.CustomerEmail))
	}

	if err := n.logs.Insert(ctx, entry); err != nil {
		logger.Warn("failed to record email log", zap.Error(err))
	}
}
