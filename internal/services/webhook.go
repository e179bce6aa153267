package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/types"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorRed    = 16711680 // #FF0000 - high severity
	ColorOrange = 16753920 // #FFA500 - medium severity
	ColorYellow = 16776960 // #FFFF00 - low severity

	Username   = "AgroManage Weather"
	timeLayout = "2006-01-02 15:04 UTC"
)

// Notifier posts weather alerts to the configured chat webhooks.
type Notifier struct {
	discordURL string
	slackURL   string
	client     *http.Client
}

func NewNotifier(discordURL, slackURL string, client *http.Client) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Notifier{discordURL: discordURL, slackURL: slackURL, client: client}
}

func (n *Notifier) Enabled() bool {
	return n != nil && (n.discordURL != "" || n.slackURL != "")
}

func (n *Notifier) SendAlert(ctx context.Context, alert models.WeatherAlert) error {
	if n.discordURL != "" {
		if err := n.post(ctx, n.discordURL, discordAlert(alert)); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		if err := n.post(ctx, n.slackURL, slackAlert(alert)); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func severityColor(severity types.Severity) (int, string) {
	switch severity {
	case types.SeverityHigh:
		return ColorRed, "danger"
	case types.SeverityMedium:
		return ColorOrange, "warning"
	default:
		return ColorYellow, "#FFFF00"
	}
}

func discordAlert(alert models.WeatherAlert) DiscordWebhookRequest {
	color, _ := severityColor(alert.Severity)

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       fmt.Sprintf("🌦️ **%s ALERT**", alert.Type),
				Description: alert.Description,
				Color:       color,
				Fields: []DiscordWebhookField{
					{Name: "⚠️ Severity", Value: "**" + string(alert.Severity) + "**", Inline: true},
					{Name: "⏰ Starts", Value: alert.StartDate.UTC().Format(timeLayout), Inline: true},
					{Name: "🏁 Ends", Value: alert.EndDate.UTC().Format(timeLayout), Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Alert #%d | AgroManage", alert.ID),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}
}

func slackAlert(alert models.WeatherAlert) SlackWebhookRequest {
	_, color := severityColor(alert.Severity)

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":warning:",
		Text:      fmt.Sprintf(":warning: *%s alert*", alert.Type),
		Attachments: []SlackAttachment{
			{
				Color: color,
				Title: fmt.Sprintf("%s (%s severity)", alert.Type, alert.Severity),
				Text:  alert.Description,
				Fields: []SlackField{
					{Title: "Starts", Value: alert.StartDate.UTC().Format(timeLayout), Short: true},
					{Title: "Ends", Value: alert.EndDate.UTC().Format(timeLayout), Short: true},
				},
				Footer:    fmt.Sprintf("Alert #%d", alert.ID),
				Timestamp: time.Now().Unix(),
			},
		},
	}
}

func (n *Notifier) post(ctx context.Context, webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
