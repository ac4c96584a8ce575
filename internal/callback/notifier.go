// Package callback delivers the one-time resolution notification for a
// finished session. The engine guarantees at-most-once triggering; this
// package only owns the transport.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/decoynet/decoy/internal/domain"
)

const notifyTimeout = 5 * time.Second

// Notifier reports a resolved session to the outside world.
type Notifier interface {
	NotifyResolution(ctx context.Context, report domain.Report) error
}

// HTTPNotifier posts the report as JSON to a fixed URL. Delivery is
// fire-and-forget: failures are logged, never retried here.
type HTTPNotifier struct {
	url    string
	client *http.Client
}

// NewHTTPNotifier creates a notifier for the given callback URL.
func NewHTTPNotifier(url string) *HTTPNotifier {
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: notifyTimeout},
	}
}

func (n *HTTPNotifier) NotifyResolution(ctx context.Context, report domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal resolution report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver resolution callback: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resolution callback rejected: status %d", resp.StatusCode)
	}

	slog.Info("Resolution callback delivered", "session_id", report.SessionID, "status", resp.StatusCode)
	return nil
}

// NopNotifier drops reports; used when no callback URL is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyResolution(ctx context.Context, report domain.Report) error {
	slog.Info("Resolution callback skipped, no URL configured", "session_id", report.SessionID)
	return nil
}
