package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf8"

	"inkwell/internal/domain"
)

const (
	StatusCompleted = "COMPLETED"
	StatusApproved  = "APPROVED"
	StatusCreated   = "CREATED"
)

type CreateOrderRequest struct {
	Amount      float64
	Currency    string
	Description string
	InvoiceID   string
	ReturnURL   string
	CancelURL   string
}

type CreatedOrder struct {
	ID          string
	Status      string
	ApprovalURL string
}

type CapturedOrder struct {
	ID        string
	Status    string
	PayerID   string
	CaptureID string
}

type OrderDetails struct {
	ID       string
	Status   string
	PayerID  string
	Amount   string
	Currency string
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	InvoiceID   string `json:"invoice_id,omitempty"`
	Amount      money  `json:"amount"`
	Payments    *struct {
		Captures []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"captures"`
	} `json:"payments,omitempty"`
}

type applicationContext struct {
	ReturnURL          string `json:"return_url"`
	CancelURL          string `json:"cancel_url"`
	BrandName          string `json:"brand_name,omitempty"`
	UserAction         string `json:"user_action,omitempty"`
	ShippingPreference string `json:"shipping_preference,omitempty"`
}

type createOrderPayload struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []purchaseUnit     `json:"purchase_units"`
	ApplicationContext applicationContext `json:"application_context"`
}

type link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []link         `json:"links"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
	Payer         struct {
		PayerID string `json:"payer_id"`
	} `json:"payer"`
}

// PayPal rejects purchase unit descriptions longer than this.
const maxDescriptionLength = 127

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := 0
	for i := range s {
		if runes == n {
			return s[:i]
		}
		runes++
	}
	return s
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderRequest) (*CreatedOrder, error) {
	currency := in.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	description := truncateRunes(in.Description, maxDescriptionLength)

	payload := createOrderPayload{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: in.InvoiceID,
			Description: description,
			InvoiceID:   in.InvoiceID,
			Amount:      money{CurrencyCode: currency, Value: domain.FormatAmount(in.Amount)},
		}},
		ApplicationContext: applicationContext{
			ReturnURL:          in.ReturnURL,
			CancelURL:          in.CancelURL,
			BrandName:          "Inkwell",
			UserAction:         "PAY_NOW",
			ShippingPreference: "NO_SHIPPING",
		},
	}

	data, err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", payload)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create order response: %w", err)
	}

	created := &CreatedOrder{ID: resp.ID, Status: resp.Status}
	for _, l := range resp.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			created.ApprovalURL = l.Href
			break
		}
	}
	if created.ApprovalURL == "" {
		return nil, fmt.Errorf("paypal order %s has no approval link", resp.ID)
	}
	return created, nil
}

func (c *Client) CaptureOrder(ctx context.Context, paypalOrderID string) (*CapturedOrder, error) {
	data, err := c.do(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(paypalOrderID)+"/capture", struct{}{})
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding capture response: %w", err)
	}

	captured := &CapturedOrder{ID: resp.ID, Status: resp.Status, PayerID: resp.Payer.PayerID}
	if len(resp.PurchaseUnits) > 0 && resp.PurchaseUnits[0].Payments != nil && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		captured.CaptureID = resp.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return captured, nil
}

func (c *Client) GetOrderDetails(ctx context.Context, paypalOrderID string) (*OrderDetails, error) {
	data, err := c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(paypalOrderID), nil)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding order details: %w", err)
	}

	details := &OrderDetails{ID: resp.ID, Status: resp.Status, PayerID: resp.Payer.PayerID}
	if len(resp.PurchaseUnits) > 0 {
		details.Amount = resp.PurchaseUnits[0].Amount.Value
		details.Currency = resp.PurchaseUnits[0].Amount.CurrencyCode
	}
	return details, nil
}
