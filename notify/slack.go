package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SlackNotifier posts internal alerts to a Slack incoming webhook.
type SlackNotifier struct {
	client       *resty.Client
	webhookURL   string
	adminBaseURL string
	log          *zap.Logger
}

func NewSlackNotifier(webhookURL, adminBaseURL string, log *zap.Logger) *SlackNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &SlackNotifier{
		client:       client,
		webhookURL:   webhookURL,
		adminBaseURL: adminBaseURL,
		log:          log,
	}
}

func (n *SlackNotifier) SendTeamAlert(ctx context.Context, alert TeamAlert) error {
	text := fmt.Sprintf(
		"New case %s submitted\n>*%s*\n>%s / %s\n>submitted by %s at %s\n>%s/cases/%d",
		alert.Number,
		alert.Title,
		alert.TypeName,
		alert.RegionName,
		alert.Username,
		alert.CreatedAt,
		n.adminBaseURL,
		alert.CaseID,
	)

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		Post(n.webhookURL)
	if err != nil {
		return &DeliveryError{Provider: "slack", Err: err}
	}
	if resp.IsError() {
		return &DeliveryError{
			Provider: "slack",
			Err:      fmt.Errorf("webhook returned %s", resp.Status()),
		}
	}

	n.log.Debug("team alert sent", zap.String("case", alert.Number))
	return nil
}
