package controller

import (
	"inkwell/internal/cart/service"
	"inkwell/internal/catalog"
	"inkwell/internal/domain"
)

type AddItemRequest struct {
	ServiceID uint `json:"serviceId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=99"`
}

// UpdateItemRequest allows zero and negatives: they remove the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartItemDTO struct {
	ID        uint               `json:"id"`
	ServiceID uint               `json:"serviceId"`
	Quantity  int                `json:"quantity"`
	LineTotal string             `json:"lineTotal"`
	Service   catalog.ServiceDTO `json:"service"`
}

type CartResponse struct {
	Items           []CartItemDTO `json:"items"`
	ItemCount       int           `json:"itemCount"`
	Subtotal        string        `json:"subtotal"`
	IndividualCount int           `json:"individualCount"`
	BundleDiscount  string        `json:"bundleDiscount"`
	Total           string        `json:"total"`
}

func toCartResponse(view *service.CartView) CartResponse {
	items := make([]CartItemDTO, 0, len(view.Cart.Items))
	for _, item := range view.Cart.Items {
		items = append(items, CartItemDTO{
			ID:        item.ID,
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			LineTotal: domain.FormatAmount(item.LineTotal()),
			Service:   catalog.ToServiceDTO(item.Service),
		})
	}
	return CartResponse{
		Items:           items,
		ItemCount:       view.Summary.ItemCount,
		Subtotal:        domain.FormatAmount(view.Summary.Subtotal),
		IndividualCount: view.Summary.IndividualCount,
		BundleDiscount:  domain.FormatAmount(view.Summary.BundleDiscount),
		Total:           domain.FormatAmount(view.Summary.Total),
	}
}
