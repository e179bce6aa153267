package services

import (
	"context"
	"time"

	"github.com/agromanage/agromanage/internal/metrics"
	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/realtime"
	"go.uber.org/zap"
)

const notifyTimeout = 15 * time.Second

// AlertBroadcaster pushes an alert to websocket subscribers and, when
// configured, to chat webhooks. Both deliveries run in the background and
// failures are only logged.
type AlertBroadcaster struct {
	hub      *realtime.Hub
	notifier *Notifier
	logger   *zap.Logger
}

func NewAlertBroadcaster(hub *realtime.Hub, notifier *Notifier, logger *zap.Logger) *AlertBroadcaster {
	return &AlertBroadcaster{hub: hub, notifier: notifier, logger: logger}
}

// PublishAlert returns without waiting for subscribers; slow websocket peers
// never hold up the caller.
func (b *AlertBroadcaster) PublishAlert(ctx context.Context, alert models.WeatherAlert) {
	go b.hub.Broadcast(realtime.AlertEvent(alert))
	metrics.RecordAlertPublished(string(alert.Severity))

	b.logger.Info("Weather alert published",
		zap.Uint("alert_id", alert.ID),
		zap.String("severity", string(alert.Severity)),
		zap.Int("subscribers", b.hub.Count()),
	)

	if !b.notifier.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := b.notifier.SendAlert(ctx, alert); err != nil {
			b.logger.Warn("Failed to send alert webhook", zap.Uint("alert_id", alert.ID), zap.Error(err))
		}
	}()
}
