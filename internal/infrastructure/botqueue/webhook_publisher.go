package botqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tapcycle/commander-league/internal/platform/logging"
)

type WebhookPublisherConfig struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

// WebhookPublisher delivers league events to the Discord bot's ingest
// webhook. It implements usecase.BotNotifier; callers treat delivery
// as best effort, so errors carry enough detail to diagnose from logs
// alone.
type WebhookPublisher struct {
	client     *http.Client
	webhookURL string
	token      string
	logger     *logging.Logger
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		webhookURL: strings.TrimRight(strings.TrimSpace(cfg.WebhookURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		logger:     logger,
	}
}

func (p *WebhookPublisher) RoundCompleted(ctx context.Context, sessionID, roundID string, roundNumber int) error {
	return p.publish(ctx, "round.completed", "round-completed:"+roundID, map[string]any{
		"session_id":   sessionID,
		"round_id":     roundID,
		"round_number": roundNumber,
	})
}

func (p *WebhookPublisher) SessionClosed(ctx context.Context, sessionID, monthYear string) error {
	return p.publish(ctx, "session.closed", "session-closed:"+sessionID, map[string]any{
		"session_id": sessionID,
		"month_year": monthYear,
	})
}

func (p *WebhookPublisher) publish(ctx context.Context, event, deduplicationID string, payload map[string]any) error {
	webhookURL, err := validateHTTPBaseURL(p.webhookURL)
	if err != nil {
		return fmt.Errorf("invalid bot webhook URL: %w", err)
	}

	envelope := map[string]any{
		"event":   event,
		"payload": payload,
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(envelope); err != nil {
		return fmt.Errorf("marshal bot event: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("botqueue.event", event),
			attribute.String("botqueue.webhook_url", webhookURL),
			attribute.String("botqueue.deduplication_id", deduplicationID),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(buf.B))
	if err != nil {
		return fmt.Errorf("create bot webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.Header.Set("X-Event-Deduplication-Id", deduplicationID)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish bot event %s: %w", event, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"publish bot event %s status=%d body=%s",
			event,
			resp.StatusCode,
			strings.TrimSpace(string(raw)),
		)
	}

	p.logger.InfoContext(ctx, "bot event published", "event", event, "deduplication_id", deduplicationID)
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
