// Package notification defines the email messages the store emits and the
// builders that fill them from domain rows.
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
)

const (
	TemplateOrderCreated    = "order_created"
	TemplateContactReceived = "contact_received"
)

// EmailMessage is the payload stored in the outbox and carried over Kafka.
type EmailMessage struct {
	To       []string       `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

func (m EmailMessage) Valid() bool {
	return len(m.To) > 0 && m.Template != ""
}

// OrderCreated tells the shop admins about a new order.
func OrderCreated(o *models.Order, admins []string, publicURL string) EmailMessage {
	// Lines are plain maps so templates see the same shape before and
	// after the JSON round trip through the outbox.
	lines := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, map[string]any{
			"Name":     it.Name,
			"Size":     it.Size,
			"Quantity": it.Quantity,
			"Price":    it.Price.StringFixed(2),
			"Total":    it.Total.StringFixed(2),
		})
	}

	customerEmail := "غير متوفر"
	if o.Email != nil && strings.TrimSpace(*o.Email) != "" {
		customerEmail = *o.Email
	}

	notes := ""
	if o.ShippingNotes != nil {
		notes = *o.ShippingNotes
	}

	return EmailMessage{
		To:       admins,
		Subject:  fmt.Sprintf("طلب جديد - Order #%s", o.Reference),
		Template: TemplateOrderCreated,
		Data: map[string]any{
			"OrderID":       o.ID.String(),
			"Reference":     o.Reference,
			"CustomerName":  o.ShippingName,
			"CustomerEmail": customerEmail,
			"Phone":         o.ShippingPhone,
			"Notes":         notes,
			"City":          o.ShippingCity,
			"Address":       o.ShippingAddress,
			"Total":         o.Total.StringFixed(2),
			"CreatedAt":     o.CreatedAt.UTC().Format(time.RFC3339),
			"Items":         lines,
			"AdminURL":      strings.TrimRight(publicURL, "/") + "/admin/orders",
		},
	}
}

// ContactReceived forwards a contact form submission to the shop admins.
func ContactReceived(m *models.ContactMessage, admins []string) EmailMessage {
	phone := ""
	if m.Phone != nil {
		phone = *m.Phone
	}
	return EmailMessage{
		To:       admins,
		Subject:  fmt.Sprintf("رسالة جديدة من %s", m.Name),
		Template: TemplateContactReceived,
		Data: map[string]any{
			"Name":    m.Name,
			"Email":   m.Email,
			"Subject": m.Subject,
			"Message": m.Message,
			"Phone":   phone,
		},
	}
}
