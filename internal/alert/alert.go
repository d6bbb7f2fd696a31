// Package alert delivers outage notifications to a Discord-compatible
// chat webhook.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Webhook posts notifications as Discord webhook messages. The URL is
// a secret and is never logged.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhook creates a webhook notifier. An empty URL is valid: the
// notifier then logs messages locally instead of sending them, which
// is the expected mode for local and test runs. Pass nil logger to use
// the default logger.
func NewWebhook(url string, timeout time.Duration, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

// Notify posts a titled message to the webhook and returns when
// delivery has been attempted. Delivery problems are logged and
// swallowed; a failed notification must not fail the run.
func (w *Webhook) Notify(ctx context.Context, title, message string) {
	content := fmt.Sprintf("⚠️ **%s**\n%s", title, message)

	if w.url == "" {
		w.logger.Info("no webhook configured, logging notification locally", "content", content)
		return
	}

	body, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		w.logger.Error("marshaling webhook payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("creating webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.logger.Error("sending webhook", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		w.logger.Warn("webhook returned non-2xx status", "status", resp.StatusCode)
		return
	}
	w.logger.Debug("webhook notification sent", "status", resp.StatusCode)
}
