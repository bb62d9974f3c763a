package notify

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mentormesh/mentormesh-api/pkg/circuitbreaker"
	"github.com/mentormesh/mentormesh-api/pkg/httpclient"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Event identifies what happened; the webhook consumer decides how (and
// whether) to deliver it to the user.
type Event string

const (
	EventSuggestionCreated  Event = "suggestion.created"
	EventSuggestionAccepted Event = "suggestion.accepted"
	EventSuggestionDeclined Event = "suggestion.declined"
	EventMessageSent        Event = "message.sent"
	EventLoginRequested     Event = "login.requested"
)

// Notifier dispatches domain events to interested users. Dispatch is
// fire-and-forget: failures are logged and counted, never surfaced to
// the caller's transaction.
type Notifier interface {
	Notify(userID string, event Event, payload map[string]interface{})
}

// WebhookNotifier posts event payloads to a configured webhook URL.
type WebhookNotifier struct {
	webhookURL string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewWebhookNotifier creates a notifier that posts to webhookURL. An empty
// URL yields a notifier that drops all events (useful for development).
func NewWebhookNotifier(webhookURL string, httpClient httpclient.Client) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("notify-webhook")),
	}
}

// Notify dispatches the event asynchronously.
func (n *WebhookNotifier) Notify(userID string, event Event, payload map[string]interface{}) {
	if n.webhookURL == "" {
		return
	}

	go n.dispatch(userID, event, payload)
}

func (n *WebhookNotifier) dispatch(userID string, event Event, payload map[string]interface{}) {
	body := map[string]interface{}{
		"user_id": userID,
		"event":   string(event),
		"payload": payload,
	}

	data, err := json.Marshal(body)
	if err != nil {
		logger.Error("Failed to marshal notification payload",
			zap.String("event", string(event)),
			zap.Error(err))
		metrics.NotificationsDispatched.WithLabelValues(string(event), "error").Inc()
		return
	}

	_, err = circuitbreaker.Execute(n.breaker, func() (struct{}, error) {
		resp, postErr := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(data))
		if postErr != nil {
			return struct{}{}, postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return struct{}{}, fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return struct{}{}, nil
	})

	if err != nil {
		logger.Warn("Notification dispatch failed",
			zap.String("event", string(event)),
			zap.String("user_id", userID),
			zap.Error(circuitbreaker.FormatError("notify-webhook", err)))
		metrics.NotificationsDispatched.WithLabelValues(string(event), "error").Inc()
		return
	}

	logger.Debug("Notification dispatched",
		zap.String("event", string(event)),
		zap.String("user_id", userID))
	metrics.NotificationsDispatched.WithLabelValues(string(event), "success").Inc()
}

// NoopNotifier drops all events. Used in tests and offline mode.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, Event, map[string]interface{}) {}

var _ Notifier = (*WebhookNotifier)(nil)
var _ Notifier = NoopNotifier{}
