// Package notify delivers request events to configured webhook URLs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkaschner/lectern/internal/event"
)

const (
	maxRetries     = 3
	requestTimeout = 10 * time.Second
)

// Dispatcher sends events to every configured webhook.
type Dispatcher struct {
	urls       []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDispatcher creates a webhook dispatcher for the given URL list.
func NewDispatcher(urls []string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		urls:       urls,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With(slog.String("component", "notify")),
	}
}

// NewDispatcherWithHTTPClient creates a dispatcher with a custom HTTP client (for testing).
func NewDispatcherWithHTTPClient(urls []string, httpClient *http.Client, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		urls:       urls,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "notify")),
	}
}

type payload struct {
	Event     string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// HandleEvent is an event.Handler that delivers the event to all webhooks.
func (d *Dispatcher) HandleEvent(e event.Event) {
	if len(d.urls) == 0 {
		return
	}

	body, err := json.Marshal(payload{
		Event:     string(e.Type),
		Timestamp: e.Timestamp,
		Data:      e.Data,
	})
	if err != nil {
		d.logger.Error("marshaling webhook payload", "type", string(e.Type), "error", err)
		return
	}

	for _, url := range d.urls {
		go d.deliver(url, string(e.Type), body)
	}
}

func (d *Dispatcher) deliver(url, eventType string, body []byte) {
	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			time.Sleep(backoff)
		}

		lastErr = d.send(url, body)
		if lastErr == nil {
			d.logger.Debug("webhook delivered",
				"url", url,
				"event", eventType,
				"attempt", attempt+1,
			)
			return
		}

		d.logger.Warn("webhook delivery failed",
			"url", url,
			"event", eventType,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}

	d.logger.Error("webhook delivery exhausted retries",
		"url", url,
		"event", eventType,
		"error", lastErr,
	)
}

func (d *Dispatcher) send(url string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Lectern-Webhook/1.0")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()        //nolint:errcheck
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
