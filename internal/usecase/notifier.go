package usecase

import "context"

// BotNotifier pushes league events to the chat bot. Delivery is best
// effort: failures are logged and never fail the triggering operation.
type BotNotifier interface {
	RoundCompleted(ctx context.Context, sessionID, roundID string, roundNumber int) error
	SessionClosed(ctx context.Context, sessionID, monthYear string) error
}

// NopNotifier drops every event. Used in tests and when no webhook is
// configured.
type NopNotifier struct{}

func (NopNotifier) RoundCompleted(context.Context, string, string, int) error { return nil }

func (NopNotifier) SessionClosed(context.Context, string, string) error { return nil }
