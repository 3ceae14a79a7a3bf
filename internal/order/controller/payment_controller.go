package controller

import (
	"context"
	"net/http"
	"strconv"

	"inkwell/internal/auth"
	"inkwell/internal/commons"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/order/usecase"

	"go.uber.org/zap"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error)
}

type OrderCapturer interface {
	CaptureOrder(ctx context.Context, orderID uint, token, ownerKey string) (*usecase.CaptureResult, error)
}

type PaymentController struct {
	creator  OrderCreator
	capturer OrderCapturer
	logger   *zap.Logger
}

func NewPaymentController(creator OrderCreator, capturer OrderCapturer, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		creator:  creator,
		capturer: capturer,
		logger:   logger,
	}
}

func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	var in usecase.CreateOrderInput
	if err := commons.DecodeJSON(r, &in); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	in.UserID = auth.FromContext(r.Context()).UserIDPtr()

	result, err := c.creator.CreateOrder(r.Context(), in)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, result, logger)
}

func (c *PaymentController) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	query := r.URL.Query()

	orderID, err := strconv.ParseUint(query.Get("orderId"), 10, 64)
	if err != nil {
		commons.HandleError(w, traceID, apperrors.NewValidationError("Invalid payment parameters"), logger)
		return
	}

	owner := auth.FromContext(r.Context()).OwnerKey()
	result, err := c.capturer.CaptureOrder(r.Context(), uint(orderID), query.Get("token"), owner)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, result, logger)
}
