package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"inkwell/internal/auth"
	"inkwell/internal/webhook"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyWebhookSignature(ctx context.Context, headers http.Header, rawBody []byte) (bool, error) {
	return false, nil
}

func TestHealth(t *testing.T) {
	ok := NewRouter(Controllers{}, fakePinger{}, zap.NewNop())
	down := NewRouter(Controllers{}, fakePinger{err: assert.AnError}, zap.NewNop())

	rec := httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	router := NewRouter(Controllers{}, fakePinger{}, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/email-logs", nil)
	req.Header.Set(auth.HeaderUserID, "u-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderRoutesRequireUser(t *testing.T) {
	router := NewRouter(Controllers{}, fakePinger{}, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookSkipsGuestSession(t *testing.T) {
	router := NewRouter(Controllers{
		Webhook: webhook.NewController(rejectingVerifier{}, nil, zap.NewNop()),
	}, fakePinger{}, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/webhooks/paypal", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}
