// Package paypal is a small client for the PayPal REST endpoints the checkout
// uses: OAuth tokens, Orders v2 and webhook signature verification.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"inkwell/internal/config"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	// tokenRefreshMargin renews the token this long before PayPal expires it.
	tokenRefreshMargin = 60 * time.Second
)

var ErrMissingCredentials = errors.New("paypal client id or secret not configured")

// APIError is a non-2xx answer from PayPal.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal api returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	webhookID    string
	timeout      time.Duration
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[[]byte]
	logger       *zap.Logger

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

type Option func(*Client)

// WithBaseURL points the client somewhere other than the PayPal API.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.PayPalConfig, logger *zap.Logger, opts ...Option) *Client {
	baseURL := SandboxBaseURL
	if cfg.IsLive() {
		baseURL = LiveBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		webhookID:    cfg.WebhookID,
		timeout:      timeout,
		httpClient:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newBreaker(logger)
	return c
}

func newBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "paypal",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx answers are PayPal rejecting this request, not PayPal being down.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (c *Client) hasCredentials() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// do sends one authenticated JSON request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding paypal request: %w", err)
		}
	}

	return c.breaker.Execute(func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building paypal request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")

		return c.send(req)
	})
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling paypal %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading paypal response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
