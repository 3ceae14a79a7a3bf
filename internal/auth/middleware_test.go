package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func captureIdentity(t *testing.T, req *http.Request) (Identity, *httptest.ResponseRecorder) {
	t.Helper()
	var got Identity
	h := Identify(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, rec
}

func TestNewGuestSessionID_Format(t *testing.T) {
	id := NewGuestSessionID(time.UnixMilli(1700000000000))

	assert.Regexp(t, `^guest_1700000000000_[0-9a-f]{9}$`, id)
	assert.True(t, IsValidGuestSessionID(id))
	assert.NotEqual(t, id, NewGuestSessionID(time.UnixMilli(1700000000000)))
}

func TestIdentify_IssuesGuestCookie(t *testing.T) {
	id, rec := captureIdentity(t, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.False(t, id.IsAuthenticated())
	assert.True(t, IsValidGuestSessionID(id.GuestSessionID))
	assert.Equal(t, id.GuestSessionID, id.OwnerKey())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, GuestCookieName, cookies[0].Name)
	assert.Equal(t, id.GuestSessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestIdentify_ReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: "guest_1700000000000_abc123def"})

	id, rec := captureIdentity(t, req)

	assert.Equal(t, "guest_1700000000000_abc123def", id.GuestSessionID)
	assert.Empty(t, rec.Result().Cookies())
}

func TestIdentify_ReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: "user:1"})

	id, rec := captureIdentity(t, req)

	assert.NotEqual(t, "user:1", id.GuestSessionID)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestIdentify_ReadsUpstreamHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderUserEmail, "jane@example.com")
	req.Header.Set(HeaderUserRole, "Admin")

	id, _ := captureIdentity(t, req)

	assert.True(t, id.IsAuthenticated())
	assert.True(t, id.IsAdmin())
	assert.Equal(t, "user:42", id.OwnerKey())
	require.NotNil(t, id.UserIDPtr())
	assert.Equal(t, "42", *id.UserIDPtr())
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := Identify(zap.NewNop())(RequireAdmin(zap.NewNop())(ok))

	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"guest", "", "", http.StatusUnauthorized},
		{"customer", "7", "user", http.StatusForbidden},
		{"admin", "1", "admin", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireUser_RejectsGuests(t *testing.T) {
	h := Identify(zap.NewNop())(RequireUser(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
