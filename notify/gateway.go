// Package notify delivers casework notifications: templated mail to the
// citizen and alerts to the staff chat channel. Delivery runs off the
// transactional outbox, never inside a case transaction.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Email template names, resolved against the template registry.
const (
	TemplateCaseReceived    = "case_received"
	TemplateCaseArranged    = "case_arranged"
	TemplateCaseDisapproved = "case_disapproved"
	TemplateCaseClosed      = "case_closed"
)

// TeamAlert is the payload of an internal chat notification about a newly
// submitted case.
type TeamAlert struct {
	CaseID     uint   `json:"case_id"`
	Number     string `json:"number"`
	Title      string `json:"title"`
	TypeName   string `json:"type_name"`
	RegionName string `json:"region_name"`
	Username   string `json:"username"`
	CreatedAt  string `json:"created_at"`
}

// Gateway is the delivery boundary the lifecycle engine depends on.
// Implementations must report failures as *DeliveryError; a failed delivery
// never unwinds the transition that produced it.
type Gateway interface {
	SendEmail(ctx context.Context, to, template string, data map[string]interface{}) error
	SendTeamAlert(ctx context.Context, alert TeamAlert) error
}

// DeliveryError wraps a provider failure. The dispatcher retries these with
// backoff; they are not surfaced to transition callers.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// FormatShortDateTime renders timestamps the way outgoing notifications
// show them.
func FormatShortDateTime(t time.Time) string {
	return t.Format("2006/01/02 15:04")
}

type providerGateway struct {
	mailer *SendGridMailer
	chat   *SlackNotifier
}

// NewGateway combines the mail and chat providers into one Gateway.
func NewGateway(mailer *SendGridMailer, chat *SlackNotifier) Gateway {
	return &providerGateway{mailer: mailer, chat: chat}
}

func (g *providerGateway) SendEmail(ctx context.Context, to, template string, data map[string]interface{}) error {
	return g.mailer.SendEmail(ctx, to, template, data)
}

func (g *providerGateway) SendTeamAlert(ctx context.Context, alert TeamAlert) error {
	return g.chat.SendTeamAlert(ctx, alert)
}
