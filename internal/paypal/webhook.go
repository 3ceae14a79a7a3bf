package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Transmission headers PayPal attaches to every webhook delivery.
const (
	HeaderTransmissionID   = "Paypal-Transmission-Id"
	HeaderTransmissionTime = "Paypal-Transmission-Time"
	HeaderTransmissionSig  = "Paypal-Transmission-Sig"
	HeaderCertURL          = "Paypal-Cert-Url"
	HeaderAuthAlgo         = "Paypal-Auth-Algo"
)

type verifyPayload struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

// VerifyWebhookSignature asks PayPal whether the delivery is authentic. It
// fails closed: no webhook id, missing headers or a non-JSON body all return
// false.
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers http.Header, rawBody []byte) (bool, error) {
	if c.webhookID == "" {
		c.logger.Warn("PAYPAL_WEBHOOK_ID not set; rejecting webhook")
		return false, nil
	}

	payload := verifyPayload{
		AuthAlgo:         headers.Get(HeaderAuthAlgo),
		CertURL:          headers.Get(HeaderCertURL),
		TransmissionID:   headers.Get(HeaderTransmissionID),
		TransmissionSig:  headers.Get(HeaderTransmissionSig),
		TransmissionTime: headers.Get(HeaderTransmissionTime),
		WebhookID:        c.webhookID,
		WebhookEvent:     json.RawMessage(rawBody),
	}
	if payload.TransmissionID == "" || payload.TransmissionSig == "" || payload.CertURL == "" ||
		payload.AuthAlgo == "" || payload.TransmissionTime == "" {
		return false, nil
	}
	if !json.Valid(rawBody) {
		return false, nil
	}

	data, err := c.do(ctx, http.MethodPost, "/v1/notifications/verify-webhook-signature", payload)
	if err != nil {
		return false, err
	}

	var result struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return false, fmt.Errorf("decoding verification response: %w", err)
	}

	c.logger.Debug("webhook verification status",
		zap.String("transmissionId", payload.TransmissionID),
		zap.String("status", result.VerificationStatus))
	return result.VerificationStatus == "SUCCESS", nil
}
