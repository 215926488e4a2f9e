// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

// EmailClient abstracts the transport (SendGrid, SMTP, ...).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OrderMailer mails the shop admin about placed and completed orders.
type OrderMailer struct {
	client EmailClient
	from   string
	to     string
	loc    *time.Location
}

func NewOrderMailer(client EmailClient, from, to string, loc *time.Location) *OrderMailer {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderMailer{
		client: client,
		from:   strings.TrimSpace(from),
		to:     strings.TrimSpace(to),
		loc:    loc,
	}
}

func (m *OrderMailer) OrderPlaced(ctx context.Context, o orderdom.Order) error {
	return m.send(ctx, "Novo pedido recebido! #"+ShortID(o.ID), m.orderBody(o))
}

func (m *OrderMailer) OrderCompleted(ctx context.Context, o orderdom.Order) error {
	return m.send(ctx, fmt.Sprintf("Pedido #%s enviado com sucesso!", ShortID(o.ID)), m.orderBody(o))
}

// SendTest mails a fixed message to the shop admin to check the mail settings.
func (m *OrderMailer) SendTest(ctx context.Context) error {
	return m.send(ctx, "SoftShake: teste de e-mail", "Este é um e-mail de teste da SoftShake.\n")
}

func (m *OrderMailer) send(ctx context.Context, subject, body string) error {
	if m == nil || m.client == nil {
		return errors.New("order_mailer: client is nil")
	}
	if m.to == "" {
		return errors.New("order_mailer: recipient is empty")
	}
	return m.client.Send(ctx, m.from, m.to, subject, body)
}

// ShortID is the 8-char order number shown to people.
func ShortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m *OrderMailer) orderBody(o orderdom.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pedido #%s\n", ShortID(o.ID))
	fmt.Fprintf(&b, "Data: %s\n", o.CreatedAt.In(m.loc).Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Cliente: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n", o.CustomerPhone)
	if o.DeliveryType == pricing.DeliveryDelivery {
		fmt.Fprintf(&b, "Entrega: %s\n", o.DeliveryAddress)
	} else {
		b.WriteString("Retirada na loja\n")
	}
	if o.DeliveryDate != nil {
		fmt.Fprintf(&b, "Data agendada: %s\n", o.DeliveryDate.In(m.loc).Format("02/01/2006"))
	}

	b.WriteString("\nItens:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %dx %s  R$ %s\n", it.Quantity, it.Name, pricing.Format(it.LineTotal()))
	}

	fmt.Fprintf(&b, "\nSubtotal: R$ %s\n", pricing.Format(o.Subtotal))
	if o.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "Taxa de entrega: R$ %s\n", pricing.Format(o.DeliveryFee))
	}
	fmt.Fprintf(&b, "Total: R$ %s\n", pricing.Format(o.TotalAmount))
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	return b.String()
}
