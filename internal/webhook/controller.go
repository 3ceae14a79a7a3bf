package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"inkwell/internal/commons"

	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

type SignatureVerifier interface {
	VerifyWebhookSignature(ctx context.Context, headers http.Header, rawBody []byte) (bool, error)
}

type EventHandler interface {
	Handle(ctx context.Context, event Event) Result
}

type Controller struct {
	verifier SignatureVerifier
	handler  EventHandler
	logger   *zap.Logger
}

func NewController(verifier SignatureVerifier, handler EventHandler, logger *zap.Logger) *Controller {
	return &Controller{
		verifier: verifier,
		handler:  handler,
		logger:   logger,
	}
}

// HandlePayPal verifies the delivery before anything else. Verified
// deliveries always get a 200 so PayPal stops retrying; the body says
// whether the event was applied.
func (c *Controller) HandlePayPal(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		commons.WriteValidationError(w, traceID, "failed to read request body", logger)
		return
	}

	ok, err := c.verifier.VerifyWebhookSignature(r.Context(), r.Header, body)
	if err != nil {
		logger.Error("webhook signature verification errored", zap.Error(err))
	}
	if err != nil || !ok {
		logger.Warn("rejected webhook with invalid signature")
		commons.WriteError(w, traceID, http.StatusUnauthorized, "INVALID_SIGNATURE", "invalid webhook signature", logger)
		return
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("verified webhook is not a valid event", zap.Error(err))
		commons.WriteJSON(w, http.StatusOK, Result{Success: false, Message: "invalid event payload"}, logger)
		return
	}

	result := c.handler.Handle(r.Context(), event)
	commons.WriteJSON(w, http.StatusOK, result, logger)
}
