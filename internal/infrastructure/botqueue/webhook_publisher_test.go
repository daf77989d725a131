package botqueue

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/platform/logging"
)

func TestWebhookPublisherRoundCompleted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer bot-secret" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if got := r.Header.Get("X-Event-Deduplication-Id"); got != "round-completed:round-1" {
			t.Fatalf("unexpected deduplication id: %s", got)
		}

		var envelope struct {
			Event   string         `json:"event"`
			Payload map[string]any `json:"payload"`
		}
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if envelope.Event != "round.completed" {
			t.Fatalf("unexpected event: %s", envelope.Event)
		}
		if envelope.Payload["round_id"] != "round-1" {
			t.Fatalf("unexpected round id: %v", envelope.Payload["round_id"])
		}
		if envelope.Payload["round_number"] != float64(2) {
			t.Fatalf("unexpected round number: %v", envelope.Payload["round_number"])
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		WebhookURL: srv.URL,
		Token:      "bot-secret",
	}, logging.NewNop())

	if err := publisher.RoundCompleted(t.Context(), "sess-1", "round-1", 2); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestWebhookPublisherSessionClosed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Event   string         `json:"event"`
			Payload map[string]any `json:"payload"`
		}
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if envelope.Event != "session.closed" {
			t.Fatalf("unexpected event: %s", envelope.Event)
		}
		if envelope.Payload["month_year"] != "08-26" {
			t.Fatalf("unexpected month: %v", envelope.Payload["month_year"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{WebhookURL: srv.URL}, logging.NewNop())

	if err := publisher.SessionClosed(t.Context(), "sess-1", "08-26"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestWebhookPublisherSurfacesFailureStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{WebhookURL: srv.URL}, logging.NewNop())

	if err := publisher.RoundCompleted(t.Context(), "sess-1", "round-1", 1); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestWebhookPublisherRejectsBadURL(t *testing.T) {
	t.Parallel()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{WebhookURL: "ftp://bot.example"}, logging.NewNop())

	if err := publisher.RoundCompleted(t.Context(), "sess-1", "round-1", 1); err == nil {
		t.Fatal("expected invalid URL error")
	}
}
