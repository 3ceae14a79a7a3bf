package promo

import (
	"net/http"

	"inkwell/internal/commons"
	"inkwell/internal/domain"

	"go.uber.org/zap"
)

type ValidateRequest struct {
	Code   string `json:"code" validate:"required,max=50"`
	Amount string `json:"amount" validate:"required,amount"`
}

type ValidateResponse struct {
	Valid          bool   `json:"valid"`
	DiscountAmount string `json:"discountAmount"`
	Message        string `json:"message"`
}

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) HandleValidate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	var req ValidateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	if err := commons.ValidateStruct(req); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		commons.WriteValidationError(w, traceID, "invalid amount", logger)
		return
	}

	result, err := c.service.Validate(r.Context(), req.Code, amount)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, ValidateResponse{
		Valid:          result.Valid,
		DiscountAmount: domain.FormatAmount(result.DiscountAmount),
		Message:        result.Message,
	}, logger)
}
