package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridMailer sends dynamic-template mail through SendGrid.
type SendGridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
	templates   *TemplateRegistry
	log         *zap.Logger
}

func NewSendGridMailer(apiKey, fromName, fromAddress string, templates *TemplateRegistry, log *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromAddress: fromAddress,
		templates:   templates,
		log:         log,
	}
}

func (m *SendGridMailer) SendEmail(ctx context.Context, to, template string, data map[string]interface{}) error {
	tpl, err := m.templates.Lookup(template)
	if err != nil {
		return &DeliveryError{Provider: "sendgrid", Err: err}
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail(m.fromName, m.fromAddress))
	msg.SetTemplateID(tpl.ID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", to))
	if tpl.Subject != "" {
		p.Subject = tpl.Subject
	}
	for key, value := range data {
		p.SetDynamicTemplateData(key, value)
	}
	msg.AddPersonalizations(p)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return &DeliveryError{Provider: "sendgrid", Err: err}
	}
	if resp.StatusCode >= 300 {
		return &DeliveryError{
			Provider: "sendgrid",
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Body),
		}
	}

	m.log.Debug("mail sent",
		zap.String("template", template),
		zap.String("to", to),
	)
	return nil
}
