package auth

import (
	"context"
	"net/http"

	"inkwell/internal/commons"
	apperrors "inkwell/internal/errors"

	"go.uber.org/zap"
)

type CartMerger interface {
	MergeGuestCart(ctx context.Context, guestSessionID, userID string) (bool, error)
	ResetMerge(ctx context.Context, guestSessionID string) error
}

type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}

type LoginResponse struct {
	UserID     string `json:"userId"`
	CartMerged bool   `json:"cartMerged"`
}

type Controller struct {
	carts  CartMerger
	logger *zap.Logger
}

func NewController(carts CartMerger, logger *zap.Logger) *Controller {
	return &Controller{carts: carts, logger: logger}
}

func (c *Controller) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, logger := commons.NewTrace(c.logger)
	id := FromContext(r.Context())

	commons.WriteJSON(w, http.StatusOK, MeResponse{
		Authenticated: id.IsAuthenticated(),
		UserID:        id.UserID,
		Email:         id.Email,
		Role:          id.Role,
	}, logger)
}

// HandleLogin is called by the frontend once the identity provider has
// signed the user in. It folds the guest cart into the user's cart.
func (c *Controller) HandleLogin(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	id := FromContext(r.Context())
	if !id.IsAuthenticated() {
		commons.HandleError(w, traceID, apperrors.NewUnauthorizedError("authentication required"), logger)
		return
	}

	merged, err := c.carts.MergeGuestCart(r.Context(), id.GuestSessionID, id.UserID)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, LoginResponse{UserID: id.UserID, CartMerged: merged}, logger)
}

func (c *Controller) HandleLogout(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	id := FromContext(r.Context())

	if err := c.carts.ResetMerge(r.Context(), id.GuestSessionID); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	logger.Info("logout", zap.String("userId", id.UserID), zap.String("session", id.GuestSessionID))

	w.WriteHeader(http.StatusNoContent)
}
