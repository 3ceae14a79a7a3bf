package controller

import (
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/order/usecase"
)

type OrderDTO struct {
	ID             uint      `json:"id"`
	UserID         *string   `json:"userId,omitempty"`
	PackageName    string    `json:"packageName"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	CustomerPhone  string    `json:"customerPhone"`
	PromoCode      *string   `json:"promoCode,omitempty"`
	DiscountAmount string    `json:"discountAmount"`
	PayPalOrderID  *string   `json:"paypalOrderId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders []OrderDTO `json:"orders"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type StatisticsResponse struct {
	TotalOrders     int    `json:"totalOrders"`
	PendingOrders   int    `json:"pendingOrders"`
	CompletedOrders int    `json:"completedOrders"`
	CancelledOrders int    `json:"cancelledOrders"`
	FailedOrders    int    `json:"failedOrders"`
	TotalRevenue    string `json:"totalRevenue"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled failed"`
}

func toOrderDTO(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:             o.ID,
		UserID:         o.UserID,
		PackageName:    o.PackageName,
		Amount:         domain.FormatAmount(o.Amount),
		Currency:       o.Currency,
		Status:         o.Status.String(),
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		PromoCode:      o.PromoCode,
		DiscountAmount: domain.FormatAmount(o.DiscountAmount),
		PayPalOrderID:  o.PayPalOrderID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toOrderDTOs(orders []domain.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out
}

func toOrderListResponse(page *usecase.OrderPage) OrderListResponse {
	return OrderListResponse{
		Orders: toOrderDTOs(page.Orders),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

func toStatisticsResponse(s *domain.OrderStatistics) StatisticsResponse {
	return StatisticsResponse{
		TotalOrders:     s.TotalOrders,
		PendingOrders:   s.PendingOrders,
		CompletedOrders: s.CompletedOrders,
		CancelledOrders: s.CancelledOrders,
		FailedOrders:    s.FailedOrders,
		TotalRevenue:    domain.FormatAmount(s.TotalRevenue),
	}
}
