package notification

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const (
	TemplateOrderConfirmation  = "order_confirmation"
	TemplateRefundNotification = "refund_notification"
)

// Each template starts with a Subject line followed by a blank line.
var templates = template.Must(template.New("emails").Parse(`
{{define "order_confirmation"}}Subject: Your Inkwell order #{{.OrderID}} is confirmed

Hi {{.CustomerName}},

Thanks for your order. Your payment of {{.Amount}} {{.Currency}} for {{.PackageName}} has been received.
{{if .PromoCode}}Promo code {{.PromoCode}} saved you {{.Discount}} {{.Currency}}.
{{end}}
Next step: complete the client intake form so we can start on your documents.

Questions? Reply to {{.SupportEmail}}.

The Inkwell team
{{end}}
{{define "refund_notification"}}Subject: Refund issued for Inkwell order #{{.OrderID}}

Hi {{.CustomerName}},

We have refunded {{.Amount}} {{.Currency}} for {{.PackageName}}. Depending on your bank it can take a few business days to appear.

If you did not expect this refund, contact {{.SupportEmail}}.

The Inkwell team
{{end}}`))

type emailData struct {
	OrderID      uint
	CustomerName string
	PackageName  string
	Amount       string
	Discount     string
	Currency     string
	PromoCode    string
	SupportEmail string
}

func render(name string, data emailData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", fmt.Errorf("rendering %s: %w", name, err)
	}

	content := buf.String()
	head, rest, found := strings.Cut(content, "\n")
	if !found || !strings.HasPrefix(head, "Subject: ") {
		return "", "", fmt.Errorf("template %s has no subject line", name)
	}
	return strings.TrimPrefix(head, "Subject: "), strings.TrimLeft(rest, "\n"), nil
}
