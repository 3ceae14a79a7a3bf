package auth

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"inkwell/internal/commons"
	"inkwell/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const guestCookieMaxAge = 365 * 24 * time.Hour

var guestSessionPattern = regexp.MustCompile(`^guest_\d+_[0-9a-z]{9}$`)

// NewGuestSessionID returns guest_<unixMillis>_<9 random chars>.
func NewGuestSessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s%d_%s", domain.GuestSessionPrefix, now.UnixMilli(), random)
}

func IsValidGuestSessionID(id string) bool {
	return guestSessionPattern.MatchString(id)
}

// Identify attaches the caller's Identity to the request context. The guest
// session cookie is issued when missing or malformed and reused otherwise.
func Identify(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Identity{
				UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
				Email:  strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
				Role:   strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
			}

			if c, err := r.Cookie(GuestCookieName); err == nil && IsValidGuestSessionID(c.Value) {
				id.GuestSessionID = c.Value
			} else {
				id.GuestSessionID = NewGuestSessionID(time.Now())
				http.SetCookie(w, &http.Cookie{
					Name:     GuestCookieName,
					Value:    id.GuestSessionID,
					Path:     "/",
					MaxAge:   int(guestCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("issued guest session", zap.String("session", id.GuestSessionID))
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func RequireUser(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).IsAuthenticated() {
				traceID, l := commons.NewTrace(logger)
				commons.WriteError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", l)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			traceID, l := commons.NewTrace(logger)
			if !id.IsAuthenticated() {
				commons.WriteError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", l)
				return
			}
			if !id.IsAdmin() {
				l.Warn("non-admin hit admin route", zap.String("userId", id.UserID), zap.String("path", r.URL.Path))
				commons.WriteError(w, traceID, http.StatusForbidden, "FORBIDDEN", "admin access required", l)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
