package commons

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	apperrors "inkwell/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// NewTrace mints a trace id and a logger carrying it.
func NewTrace(logger *zap.Logger) (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, logger.With(zap.String("traceId", traceID))
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, traceID string, status int, code, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteJSON(w, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

func WriteValidationError(w http.ResponseWriter, traceID, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", message, logger, details...)
}

// HandleError maps application errors onto HTTP responses. Anything it does
// not recognise is logged and reported as a generic 500.
func HandleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		WriteError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		WriteError(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		WriteError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		WriteError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		WriteError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), logger)
		return
	}

	if _, ok := apperrors.IsGatewayError(err); ok {
		logger.Error("payment gateway error", zap.Error(err))
		WriteError(w, traceID, http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR",
			"the payment provider could not process the request, please contact support", logger)
		return
	}

	if ie, ok := apperrors.IsInternalError(err); ok {
		logger.Error(ie.Message, zap.Error(ie.Cause))
		WriteError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", logger)
}

// DecodeJSON decodes the request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

// PathID parses a positive integer chi path parameter.
func PathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
	}
	return uint(id), nil
}
