package auth

import (
	"context"

	"inkwell/internal/domain"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"

	GuestCookieName = "guest_session_id"
	RoleAdmin       = "admin"
)

// Identity is who is calling. A request always carries a guest session id;
// UserID is set only when the upstream identity provider authenticated it.
type Identity struct {
	UserID         string
	Email          string
	Role           string
	GuestSessionID string
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}

// OwnerKey is the cart owner for this caller.
func (i Identity) OwnerKey() string {
	if i.IsAuthenticated() {
		return domain.UserOwnerKey(i.UserID)
	}
	return i.GuestSessionID
}

// UserIDPtr returns nil for guests.
func (i Identity) UserIDPtr() *string {
	if !i.IsAuthenticated() {
		return nil
	}
	id := i.UserID
	return &id
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the zero Identity when the middleware did not run.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}
