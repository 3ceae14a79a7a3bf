package intake

import (
	"net/http"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/commons"
	"inkwell/internal/domain"

	"go.uber.org/zap"
)

type SubmissionDTO struct {
	OrderID         uint      `json:"orderId"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	CurrentRole     string    `json:"currentRole"`
	TargetRole      string    `json:"targetRole"`
	Industry        string    `json:"industry"`
	YearsExperience int       `json:"yearsExperience"`
	LinkedInURL     string    `json:"linkedinUrl,omitempty"`
	CareerGoals     string    `json:"careerGoals"`
	AdditionalInfo  string    `json:"additionalInfo,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toDTO(s *domain.IntakeSubmission) SubmissionDTO {
	return SubmissionDTO{
		OrderID:         s.OrderID,
		FullName:        s.FullName,
		Email:           s.Email,
		Phone:           s.Phone,
		CurrentRole:     s.CurrentRole,
		TargetRole:      s.TargetRole,
		Industry:        s.Industry,
		YearsExperience: s.YearsExperience,
		LinkedInURL:     s.LinkedInURL,
		CareerGoals:     s.CareerGoals,
		AdditionalInfo:  s.AdditionalInfo,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	var form Form
	if err := commons.DecodeJSON(r, &form); err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	submission, err := c.service.Submit(r.Context(), auth.FromContext(r.Context()), form)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toDTO(submission), logger)
}

func (c *Controller) GetByOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	orderID, err := commons.PathID(r, "orderId")
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	submission, err := c.service.GetByOrder(r.Context(), orderID)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toDTO(submission), logger)
}
