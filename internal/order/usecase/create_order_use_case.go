package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"inkwell/internal/commons"
	"inkwell/internal/domain"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/paypal"
	"inkwell/internal/promo"

	"go.uber.org/zap"
)

type OrderWriter interface {
	Insert(ctx context.Context, order domain.Order) (uint, error)
	SetPayPalOrderID(ctx context.Context, id uint, paypalOrderID string) error
}

type OrderCreatorGateway interface {
	CreateOrder(ctx context.Context, in paypal.CreateOrderRequest) (*paypal.CreatedOrder, error)
}

type PromoValidator interface {
	Validate(ctx context.Context, code string, amount float64) (*promo.Result, error)
}

// CreateOrderInput is the checkout form. Amount is the final total the
// customer is asked to pay; DiscountAmount is the promo discount already
// taken off it and is required with PromoCode.
type CreateOrderInput struct {
	Description    string  `json:"description" validate:"required,max=500"`
	Amount         string  `json:"amount" validate:"required,amount"`
	CustomerName   string  `json:"customerName" validate:"required,max=150"`
	CustomerEmail  string  `json:"customerEmail" validate:"required,email,max=150"`
	CustomerPhone  string  `json:"customerPhone" validate:"required,phone"`
	PromoCode      string  `json:"promoCode" validate:"omitempty,max=50"`
	DiscountAmount string  `json:"discountAmount" validate:"omitempty,amount"`
	UserID         *string `json:"-"`
}

type CreateOrderResult struct {
	OrderID       uint   `json:"orderId"`
	PayPalOrderID string `json:"paypalOrderId"`
	ApprovalURL   string `json:"approvalUrl"`
}

type CreateOrderUseCase struct {
	orders        OrderWriter
	gateway       OrderCreatorGateway
	promos        PromoValidator
	publicBaseURL string
	currency      string
	logger        *zap.Logger
}

func NewCreateOrderUseCase(
	orders OrderWriter,
	gateway OrderCreatorGateway,
	promos PromoValidator,
	publicBaseURL string,
	currency string,
	logger *zap.Logger,
) *CreateOrderUseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &CreateOrderUseCase{
		orders:        orders,
		gateway:       gateway,
		promos:        promos,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		currency:      currency,
		logger:        logger,
	}
}

// CreateOrder stores a pending order and opens the matching PayPal order.
// When PayPal fails the local order is left pending.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.PromoCode = strings.ToUpper(strings.TrimSpace(in.PromoCode))

	if err := commons.ValidateStruct(in); err != nil {
		return nil, err
	}
	amount, err := domain.ParseAmount(in.Amount)
	if err != nil {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "amount",
			Message: err.Error(),
		})
	}

	order := domain.Order{
		UserID:        in.UserID,
		PackageName:   strings.TrimSpace(in.Description),
		Amount:        amount,
		Currency:      uc.currency,
		Status:        domain.OrderStatusPending,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
	}

	if in.PromoCode != "" {
		discount, err := uc.promoDiscount(ctx, in, amount)
		if err != nil {
			return nil, err
		}
		code := in.PromoCode
		order.PromoCode = &code
		order.DiscountAmount = discount
	}

	orderID, err := uc.orders.Insert(ctx, order)
	if err != nil {
		return nil, err
	}
	logger := uc.logger.With(zap.Uint("orderId", orderID))
	logger.Info("order created", zap.Float64("amount", amount), zap.String("currency", uc.currency))

	created, err := uc.gateway.CreateOrder(ctx, paypal.CreateOrderRequest{
		Amount:      amount,
		Currency:    uc.currency,
		Description: order.PackageName,
		InvoiceID:   fmt.Sprint(orderID),
		ReturnURL:   fmt.Sprintf("%s/payment/success?orderId=%d", uc.publicBaseURL, orderID),
		CancelURL:   fmt.Sprintf("%s/payment/cancel?orderId=%d", uc.publicBaseURL, orderID),
	})
	if err != nil {
		logger.Error("paypal order creation failed; local order left pending", zap.Error(err))
		return nil, apperrors.NewGatewayError("failed to create PayPal order", err)
	}

	if err := uc.orders.SetPayPalOrderID(ctx, orderID, created.ID); err != nil {
		logger.Error("failed to store paypal order id", zap.String("paypalOrderId", created.ID), zap.Error(err))
		return nil, err
	}
	logger.Info("paypal order opened", zap.String("paypalOrderId", created.ID))

	return &CreateOrderResult{
		OrderID:       orderID,
		PayPalOrderID: created.ID,
		ApprovalURL:   created.ApprovalURL,
	}, nil
}

// promoDiscount re-validates the code against the total before the promo
// (amount + claimed discount) and checks that the claimed discount is the one
// the code actually grants.
func (uc *CreateOrderUseCase) promoDiscount(ctx context.Context, in CreateOrderInput, amount float64) (float64, error) {
	if strings.TrimSpace(in.DiscountAmount) == "" {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "discountAmount",
			Message: "discountAmount is required with promoCode",
		})
	}
	claimed, err := domain.ParseAmount(in.DiscountAmount)
	if err != nil {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "discountAmount",
			Message: err.Error(),
		})
	}

	preTotal := domain.RoundCents(amount + claimed)
	result, err := uc.promos.Validate(ctx, in.PromoCode, preTotal)
	if err != nil {
		return 0, err
	}
	if !result.Valid {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "promoCode",
			Message: result.Message,
		})
	}
	if math.Abs(domain.RoundCents(preTotal-result.DiscountAmount)-amount) >= 0.005 {
		uc.logger.Warn("checkout amount does not match promo discount",
			zap.String("code", in.PromoCode),
			zap.Float64("amount", amount),
			zap.Float64("claimedDiscount", claimed),
			zap.Float64("discount", result.DiscountAmount),
		)
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "amount",
			Message: "Amount does not match the promo code discount",
		})
	}
	return result.DiscountAmount, nil
}
