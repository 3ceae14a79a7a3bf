package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCartMerger struct {
	MergeGuestCartFunc func(ctx context.Context, guestSessionID, userID string) (bool, error)
	ResetMergeFunc     func(ctx context.Context, guestSessionID string) error
}

func (m *mockCartMerger) MergeGuestCart(ctx context.Context, guestSessionID, userID string) (bool, error) {
	return m.MergeGuestCartFunc(ctx, guestSessionID, userID)
}

func (m *mockCartMerger) ResetMerge(ctx context.Context, guestSessionID string) error {
	return m.ResetMergeFunc(ctx, guestSessionID)
}

const session = "guest_1700000000000_abc123def"

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: session})
	rec := httptest.NewRecorder()
	Identify(zap.NewNop())(h).ServeHTTP(rec, req)
	return rec
}

func TestHandleMe_Guest(t *testing.T) {
	ctrl := NewController(&mockCartMerger{}, zap.NewNop())

	rec := serve(ctrl.HandleMe, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Authenticated)
	assert.Empty(t, resp.UserID)
}

func TestHandleLogin_MergesGuestCart(t *testing.T) {
	var gotSession, gotUser string
	ctrl := NewController(&mockCartMerger{
		MergeGuestCartFunc: func(ctx context.Context, guestSessionID, userID string) (bool, error) {
			gotSession, gotUser = guestSessionID, userID
			return true, nil
		},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(HeaderUserID, "42")
	rec := serve(ctrl.HandleLogin, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session, gotSession)
	assert.Equal(t, "42", gotUser)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.CartMerged)
}

func TestHandleLogin_RequiresUser(t *testing.T) {
	ctrl := NewController(&mockCartMerger{}, zap.NewNop())

	rec := serve(ctrl.HandleLogin, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLogout_ResetsMergeFlag(t *testing.T) {
	var reset string
	ctrl := NewController(&mockCartMerger{
		ResetMergeFunc: func(ctx context.Context, guestSessionID string) error {
			reset = guestSessionID
			return nil
		},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(HeaderUserID, "42")
	rec := serve(ctrl.HandleLogout, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, session, reset)
}
