package intake

import (
	"context"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/commons"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"

	"go.uber.org/zap"
)

// Form steps, in the order the client fills them in.
const (
	StepContact = "contact"
	StepCareer  = "career"
	StepGoals   = "goals"
)

var fieldSteps = map[string]string{
	"fullName":        StepContact,
	"email":           StepContact,
	"phone":           StepContact,
	"currentRole":     StepCareer,
	"targetRole":      StepCareer,
	"industry":        StepCareer,
	"yearsExperience": StepCareer,
	"linkedinUrl":     StepCareer,
	"careerGoals":     StepGoals,
	"additionalInfo":  StepGoals,
}

type Form struct {
	OrderID         uint   `json:"orderId" validate:"required,gt=0"`
	FullName        string `json:"fullName" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email,max=150"`
	Phone           string `json:"phone" validate:"required,phone"`
	CurrentRole     string `json:"currentRole" validate:"required,max=150"`
	TargetRole      string `json:"targetRole" validate:"required,max=150"`
	Industry        string `json:"industry" validate:"required,max=100"`
	YearsExperience *int   `json:"yearsExperience" validate:"required,min=0,max=60"`
	LinkedInURL     string `json:"linkedinUrl" validate:"omitempty,url,max=255"`
	CareerGoals     string `json:"careerGoals" validate:"required,max=5000"`
	AdditionalInfo  string `json:"additionalInfo" validate:"omitempty,max=5000"`
}

type OrderChecker interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

type Repository interface {
	Upsert(ctx context.Context, s domain.IntakeSubmission) error
	FindByOrderID(ctx context.Context, orderID uint) (*domain.IntakeSubmission, error)
}

type Service struct {
	repo   Repository
	orders OrderChecker
	logger *zap.Logger
}

func NewService(repo Repository, orders OrderChecker, logger *zap.Logger) *Service {
	return &Service{repo: repo, orders: orders, logger: logger}
}

// Submit validates the form and stores it against its order. Only the
// order's owner (or an admin) may submit, and only once it is paid.
func (s *Service) Submit(ctx context.Context, caller auth.Identity, form Form) (*domain.IntakeSubmission, error) {
	trim(&form)
	if err := validate(form); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, form.OrderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "orderId",
				Message: "order does not exist",
			})
		}
		return nil, err
	}
	if err := authorize(caller, *order, form.Email); err != nil {
		s.logger.Warn("intake submission rejected",
			zap.Uint("orderId", order.ID),
			zap.String("userId", caller.UserID),
			zap.Error(err),
		)
		return nil, err
	}
	if order.Status != domain.OrderStatusCompleted {
		return nil, apperrors.NewConflictError("intake is only accepted for completed orders")
	}

	submission := domain.IntakeSubmission{
		OrderID:         form.OrderID,
		FullName:        form.FullName,
		Email:           form.Email,
		Phone:           form.Phone,
		CurrentRole:     form.CurrentRole,
		TargetRole:      form.TargetRole,
		Industry:        form.Industry,
		YearsExperience: *form.YearsExperience,
		LinkedInURL:     form.LinkedInURL,
		CareerGoals:     form.CareerGoals,
		AdditionalInfo:  form.AdditionalInfo,
	}
	if err := s.repo.Upsert(ctx, submission); err != nil {
		return nil, err
	}
	s.logger.Info("intake form submitted", zap.Uint("orderId", form.OrderID))

	return s.repo.FindByOrderID(ctx, form.OrderID)
}

func (s *Service) GetByOrder(ctx context.Context, orderID uint) (*domain.IntakeSubmission, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

// authorize lets admins through. A user order needs its user; a guest order
// needs the email it was placed with.
func authorize(caller auth.Identity, order domain.Order, email string) error {
	if caller.IsAdmin() {
		return nil
	}
	if order.UserID != nil {
		if !caller.IsAuthenticated() {
			return apperrors.NewUnauthorizedError("authentication required")
		}
		if !order.BelongsTo(caller.UserID) {
			return apperrors.NewForbiddenError("order belongs to another user")
		}
		return nil
	}
	if !strings.EqualFold(email, order.CustomerEmail) {
		return apperrors.NewForbiddenError("email does not match the order")
	}
	return nil
}

func trim(f *Form) {
	for _, field := range []*string{
		&f.FullName, &f.Email, &f.Phone, &f.CurrentRole, &f.TargetRole,
		&f.Industry, &f.LinkedInURL, &f.CareerGoals, &f.AdditionalInfo,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// validate prefixes each failing field with its step, e.g. "career.industry".
func validate(form Form) error {
	err := commons.ValidateStruct(form)
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		return err
	}
	for i, d := range ve.Details {
		if step, ok := fieldSteps[d.Field]; ok {
			ve.Details[i].Field = step + "." + d.Field
		}
	}
	return ve
}
