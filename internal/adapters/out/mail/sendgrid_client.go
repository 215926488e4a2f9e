// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	senderName   = "SoftShake"
	mailCategory = "softshake-order"
)

var (
	ErrNoAPIKey     = errors.New("sendgrid: api key is empty")
	ErrNoAddress    = errors.New("sendgrid: from/to address is empty")
	ErrRejectedBySG = errors.New("sendgrid: request rejected")
)

// SendGridClient implements EmailClient over the v3 mail send API.
type SendGridClient struct {
	client *sendgrid.Client
}

func NewSendGridClient(apiKey string) *SendGridClient {
	if apiKey == "" {
		return &SendGridClient{}
	}
	return &SendGridClient{client: sendgrid.NewSendClient(apiKey)}
}

func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c == nil || c.client == nil {
		return ErrNoAPIKey
	}
	msg, err := buildMessage(from, to, subject, body)
	if err != nil {
		return err
	}

	resp, err := c.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if resp.StatusCode >= 400 {
		log.Printf("[sendgrid] WARN: status=%d body=%s", resp.StatusCode, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrRejectedBySG, resp.StatusCode)
	}

	log.Printf("[sendgrid] mail sent: status=%d subject=%q", resp.StatusCode, subject)
	return nil
}

// buildMessage renders the body as text/plain plus an escaped <pre> copy for HTML clients.
func buildMessage(from, to, subject, body string) (*mail.SGMailV3, error) {
	if from == "" || to == "" {
		return nil, ErrNoAddress
	}

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", to))

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(senderName, from))
	m.Subject = subject
	m.AddPersonalizations(p)
	m.AddContent(
		mail.NewContent("text/plain", body),
		mail.NewContent("text/html", "<pre>"+html.EscapeString(body)+"</pre>"),
	)
	m.AddCategories(mailCategory)
	return m, nil
}
