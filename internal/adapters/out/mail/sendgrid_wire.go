// internal/adapters/out/mail/sendgrid_wire.go
package mail

import (
	"log"
	"time"
)

// NewOrderMailerWithSendGrid wires OrderMailer to SendGrid.
// Missing settings only warn: mail is best-effort.
func NewOrderMailerWithSendGrid(apiKey, from, shopAdmin string, loc *time.Location) *OrderMailer {
	if apiKey == "" {
		log.Printf("[mail] WARN: SENDGRID_API_KEY is empty. OrderMailer will fail to send mail.")
	}
	if from == "" {
		log.Printf("[mail] WARN: SENDGRID_FROM is empty. OrderMailer will fail to send mail.")
	}
	if shopAdmin == "" {
		log.Printf("[mail] WARN: SHOP_ADMIN_EMAIL is empty. OrderMailer will fail to send mail.")
	}

	mailer := NewOrderMailer(NewSendGridClient(apiKey), from, shopAdmin, loc)
	log.Printf("[mail] OrderMailerWithSendGrid initialized. from=%s", from)
	return mailer
}
