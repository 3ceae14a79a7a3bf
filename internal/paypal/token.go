package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetAccessToken returns a cached bearer token, fetching a new one through the
// client-credentials grant when the cached one is within a minute of expiry.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if !c.hasCredentials() {
		return "", ErrMissingCredentials
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	tr, err := c.breaker.Execute(func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("building token request: %w", err)
		}
		req.SetBasicAuth(c.clientID, c.clientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		return c.send(req)
	})
	if err != nil {
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(tr, &token); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("paypal returned an empty access token")
	}

	lifetime := time.Duration(token.ExpiresIn)*time.Second - tokenRefreshMargin
	if lifetime < 0 {
		lifetime = 0
	}
	c.token = token.AccessToken
	c.tokenExpiry = c.now().Add(lifetime)
	c.logger.Debug("paypal access token refreshed", zap.Time("expiresAt", c.tokenExpiry))

	return c.token, nil
}
