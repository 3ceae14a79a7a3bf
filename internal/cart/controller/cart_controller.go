package controller

import (
	"context"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/cart/service"
	"inkwell/internal/commons"

	"go.uber.org/zap"
)

type CartService interface {
	GetTotal(ctx context.Context, ownerKey string) (*service.CartView, error)
	AddToCart(ctx context.Context, ownerKey string, serviceID uint, quantity int) error
	UpdateQuantity(ctx context.Context, ownerKey string, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, ownerKey string, itemID uint) error
	ClearCart(ctx context.Context, ownerKey string) error
}

type CartController struct {
	service CartService
	logger  *zap.Logger
}

func NewCartController(service CartService, logger *zap.Logger) *CartController {
	return &CartController{
		service: service,
		logger:  logger,
	}
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	owner := auth.FromContext(r.Context()).OwnerKey()

	c.respondWithCart(w, r, traceID, owner, http.StatusOK, logger)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	owner := auth.FromContext(r.Context()).OwnerKey()

	var req AddItemRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	if err := commons.ValidateStruct(req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	if err := c.service.AddToCart(r.Context(), owner, req.ServiceID, req.Quantity); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	c.respondWithCart(w, r, traceID, owner, http.StatusCreated, logger)
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	owner := auth.FromContext(r.Context()).OwnerKey()

	itemID, err := commons.PathID(r, "itemId")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	var req UpdateItemRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	if err := commons.ValidateStruct(req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	if err := c.service.UpdateQuantity(r.Context(), owner, itemID, *req.Quantity); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	c.respondWithCart(w, r, traceID, owner, http.StatusOK, logger)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	owner := auth.FromContext(r.Context()).OwnerKey()

	itemID, err := commons.PathID(r, "itemId")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	if err := c.service.RemoveItem(r.Context(), owner, itemID); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	c.respondWithCart(w, r, traceID, owner, http.StatusOK, logger)
}

func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	owner := auth.FromContext(r.Context()).OwnerKey()

	if err := c.service.ClearCart(r.Context(), owner); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *CartController) respondWithCart(w http.ResponseWriter, r *http.Request, traceID, owner string, status int, logger *zap.Logger) {
	view, err := c.service.GetTotal(r.Context(), owner)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	commons.WriteJSON(w, status, toCartResponse(view), logger)
}
