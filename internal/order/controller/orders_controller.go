package controller

import (
	"context"
	"net/http"
	"strconv"

	"inkwell/internal/auth"
	"inkwell/internal/commons"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/order/usecase"

	"go.uber.org/zap"
)

type OrderManager interface {
	GetByID(ctx context.Context, id uint, caller auth.Identity) (*domain.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetAll(ctx context.Context, status string, limit, offset int) (*usecase.OrderPage, error)
	UpdateStatus(ctx context.Context, id uint, next domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id uint) error
	GetStatistics(ctx context.Context) (*domain.OrderStatistics, error)
}

type OrdersController struct {
	orders OrderManager
	logger *zap.Logger
}

func NewOrdersController(orders OrderManager, logger *zap.Logger) *OrdersController {
	return &OrdersController{
		orders: orders,
		logger: logger,
	}
}

func (c *OrdersController) GetByID(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	id, err := commons.PathID(r, "orderId")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	order, err := c.orders.GetByID(r.Context(), id, auth.FromContext(r.Context()))
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderDTO(*order), logger)
}

func (c *OrdersController) GetMine(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	orders, err := c.orders.GetUserOrders(r.Context(), auth.FromContext(r.Context()).UserID)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderDTOs(orders), logger)
}

func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)
	query := r.URL.Query()

	limit, err := queryInt(query.Get("limit"), "limit")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	offset, err := queryInt(query.Get("offset"), "offset")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	page, err := c.orders.GetAll(r.Context(), query.Get("status"), limit, offset)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderListResponse(page), logger)
}

func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	id, err := commons.PathID(r, "orderId")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	var req UpdateStatusRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	if err := commons.ValidateStruct(req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	logger.Info("order status updated by admin",
		zap.Uint("orderId", id),
		zap.String("status", req.Status),
		zap.String("admin", auth.FromContext(r.Context()).UserID),
	)

	commons.WriteJSON(w, http.StatusOK, toOrderDTO(*order), logger)
}

func (c *OrdersController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	id, err := commons.PathID(r, "orderId")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	if err := c.orders.Delete(r.Context(), id); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *OrdersController) Statistics(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	stats, err := c.orders.GetStatistics(r.Context())
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toStatisticsResponse(stats), logger)
}

func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be an integer",
		})
	}
	return v, nil
}
