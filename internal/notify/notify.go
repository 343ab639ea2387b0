// Package notify delivers a copy of every successful authorization to an
// external sink. Delivery is best-effort: failures are logged by the
// caller and never affect the authorization outcome.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Event describes one granted authorization.
type Event struct {
	RequestID       string    `json:"request_id"`
	Role            string    `json:"role"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	MAC             string    `json:"mac"`
	FloorID         int64     `json:"floor_id,omitempty"`
	EventID         int64     `json:"event_id,omitempty"`
	RecordID        int64     `json:"record_id"`
	DurationMinutes int       `json:"duration_minutes"`
	AuthorizedAt    time.Time `json:"authorized_at"`
}

// Notifier receives authorization events.
type Notifier interface {
	AuthorizationGranted(ctx context.Context, ev Event) error
}

// New returns a webhook notifier when a URL is configured, otherwise a
// notifier that only logs.
func New(webhookURL string, timeout time.Duration, logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if webhookURL != "" {
		return NewWebhookNotifier(webhookURL, timeout, logger)
	}
	return &LogNotifier{logger: logger}
}

// LogNotifier writes the event to the application log.
type LogNotifier struct {
	logger *zap.Logger
}

func (n *LogNotifier) AuthorizationGranted(ctx context.Context, ev Event) error {
	n.logger.Info("authorization granted",
		zap.String("role", ev.Role),
		zap.String("email", ev.Email),
		zap.String("mac", ev.MAC),
		zap.Int("duration_minutes", ev.DurationMinutes),
	)
	return nil
}

// WebhookNotifier POSTs the event as JSON to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier with a bounded timeout.
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (n *WebhookNotifier) AuthorizationGranted(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("webhook delivered",
		zap.String("mac", ev.MAC),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
