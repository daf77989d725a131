package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/participant"
	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/infrastructure/repository/memory"
	"github.com/tapcycle/commander-league/internal/platform/cache"
	"github.com/tapcycle/commander-league/internal/platform/logging"
)

type signinFixture struct {
	participants *memory.ParticipantRepository
	sessions     *memory.SessionRepository
	achievements *memory.AchievementRepository
	service      *SigninService
}

func newSigninFixture(t *testing.T) *signinFixture {
	t.Helper()
	ctx := t.Context()

	participants := memory.NewParticipantRepository([]participant.Participant{
		{ID: "p1", Name: "Alex", Code: "AAAAAA", ExternalRef: "discord:1"},
		{ID: "p2", Name: "Blake", Code: "BBBBBB"},
	})
	sessions := memory.NewSessionRepository()
	achievements := memory.NewAchievementRepository(memory.SeedAchievements())

	if err := sessions.CreateSession(ctx, session.Session{ID: "sess-1", MonthYear: "08-26", Date: time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := sessions.CreateRound(ctx, session.Round{ID: "round-1", SessionID: "sess-1", Number: 1}); err != nil {
		t.Fatalf("seed round: %v", err)
	}
	if err := sessions.CreateRound(ctx, session.Round{ID: "round-2", SessionID: "sess-1", Number: 2}); err != nil {
		t.Fatalf("seed round: %v", err)
	}

	service := NewSigninService(
		participants,
		sessions,
		achievements,
		cache.NewStore(time.Minute),
		&seqIDGenerator{prefix: "grant"},
		logging.NewNop(),
	)

	return &signinFixture{
		participants: participants,
		sessions:     sessions,
		achievements: achievements,
		service:      service,
	}
}

func TestSigninService_LinkByCode(t *testing.T) {
	f := newSigninFixture(t)

	item, err := f.service.LinkByCode(t.Context(), "bbbbbb", "discord:2")
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if item.ID != "p2" || item.ExternalRef != "discord:2" {
		t.Fatalf("unexpected link result: %+v", item)
	}

	// Relinking the same account is idempotent.
	if _, err := f.service.LinkByCode(t.Context(), "BBBBBB", "discord:2"); err != nil {
		t.Fatalf("relink failed: %v", err)
	}

	// A code bound to someone else cannot be taken over.
	if _, err := f.service.LinkByCode(t.Context(), "AAAAAA", "discord:9"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := f.service.LinkByCode(t.Context(), "ZZZZZZ", "discord:3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSigninService_RecordSignInIsIdempotent(t *testing.T) {
	f := newSigninFixture(t)

	if _, err := f.service.RecordSignIn(t.Context(), "discord:1", []string{"round-1", "round-2"}); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if _, err := f.service.RecordSignIn(t.Context(), "discord:1", []string{"round-1"}); err != nil {
		t.Fatalf("repeat sign in failed: %v", err)
	}

	grants, err := f.achievements.ListGrantsByRound(t.Context(), "round-1")
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	active := 0
	for _, grant := range grants {
		if grant.DeletedAt == nil {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected one participation grant for round-1, got %d", active)
	}
}

func TestSigninService_RecordSignInRejectsUnlinkedAccount(t *testing.T) {
	f := newSigninFixture(t)

	if _, err := f.service.RecordSignIn(t.Context(), "discord:404", []string{"round-1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSigninService_RecordSignInRejectsCompletedRound(t *testing.T) {
	f := newSigninFixture(t)

	if err := f.sessions.MarkRoundCompleted(t.Context(), "round-1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if _, err := f.service.RecordSignIn(t.Context(), "discord:1", []string{"round-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSigninService_StageAndConfirm(t *testing.T) {
	f := newSigninFixture(t)

	if err := f.service.StageSelection(t.Context(), "guild-1", "user-1", []string{"round-1"}); err != nil {
		t.Fatalf("stage failed: %v", err)
	}

	item, roundIDs, err := f.service.ConfirmSignIn(t.Context(), "guild-1", "user-1", "discord:1")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if item.ID != "p1" || len(roundIDs) != 1 || roundIDs[0] != "round-1" {
		t.Fatalf("unexpected confirm result: %+v %v", item, roundIDs)
	}

	// The selection is consumed on confirm.
	if _, _, err := f.service.ConfirmSignIn(t.Context(), "guild-1", "user-1", "discord:1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second confirm, got %v", err)
	}
}

func TestSigninService_OpenRounds(t *testing.T) {
	f := newSigninFixture(t)

	if _, err := f.service.RecordSignIn(t.Context(), "discord:1", []string{"round-1"}); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	rounds, err := f.service.OpenRounds(t.Context())
	if err != nil {
		t.Fatalf("open rounds failed: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].SignedIn != 1 || rounds[1].SignedIn != 0 {
		t.Fatalf("unexpected roster sizes: %+v", rounds)
	}
}
