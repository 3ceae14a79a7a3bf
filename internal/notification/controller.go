package notification

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"inkwell/internal/commons"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"

	"go.uber.org/zap"
)

const (
	defaultLogPage = 50
	maxLogPage     = 200
)

type LogReader interface {
	FindAll(ctx context.Context, limit, offset int) ([]domain.EmailLog, error)
}

type EmailLogDTO struct {
	ID           uint      `json:"id"`
	OrderID      *uint     `json:"orderId,omitempty"`
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject"`
	Template     string    `json:"template"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Controller struct {
	logs   LogReader
	logger *zap.Logger
}

func NewController(logs LogReader, logger *zap.Logger) *Controller {
	return &Controller{logs: logs, logger: logger}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	limit, offset, err := paging(r)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	logs, err := c.logs.FindAll(r.Context(), limit, offset)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	out := make([]EmailLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, EmailLogDTO{
			ID:           l.ID,
			OrderID:      l.OrderID,
			Recipient:    l.Recipient,
			Subject:      l.Subject,
			Template:     l.Template,
			Status:       string(l.Status),
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		})
	}
	commons.WriteJSON(w, http.StatusOK, out, logger)
}

func paging(r *http.Request) (int, int, error) {
	limit, offset := defaultLogPage, 0
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, 0, apperrors.NewValidationError("invalid limit", apperrors.ValidationDetail{Field: "limit", Message: "limit must be a positive integer"})
		}
		limit = v
	}
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, apperrors.NewValidationError("invalid offset", apperrors.ValidationDetail{Field: "offset", Message: "offset must be at least 0"})
		}
		offset = v
	}
	if limit > maxLogPage {
		limit = maxLogPage
	}
	return limit, offset, nil
}
