package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/domain/scoresheet"
	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/infrastructure/repository/memory"
	"github.com/tapcycle/commander-league/internal/platform/logging"
)

type seqIDGenerator struct {
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

type recordingNotifier struct {
	roundsCompleted []string
	sessionsClosed  []string
}

func (n *recordingNotifier) RoundCompleted(_ context.Context, _, roundID string, _ int) error {
	n.roundsCompleted = append(n.roundsCompleted, roundID)
	return nil
}

func (n *recordingNotifier) SessionClosed(_ context.Context, sessionID, _ string) error {
	n.sessionsClosed = append(n.sessionsClosed, sessionID)
	return nil
}

type scoresheetFixture struct {
	sessions     *memory.SessionRepository
	achievements *memory.AchievementRepository
	sheets       *memory.ScoresheetRepository
	notifier     *recordingNotifier
	service      *ScoresheetService
}

// newScoresheetFixture builds an open session with two rounds. Round 1
// holds pod-1 seating p1..p4; round 2 holds pod-2 seating the same four.
func newScoresheetFixture(t *testing.T) *scoresheetFixture {
	t.Helper()
	ctx := t.Context()

	sessions := memory.NewSessionRepository()
	achievements := memory.NewAchievementRepository(memory.SeedAchievements())
	colors := memory.NewColorRepository(memory.SeedColors())
	sheets := memory.NewScoresheetRepository(achievements)
	cards := memory.NewCardCatalog(memory.SeedCards())
	notifier := &recordingNotifier{}

	if err := sessions.CreateSession(ctx, session.Session{ID: "sess-1", MonthYear: "08-26", Date: time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	for i := 1; i <= 2; i++ {
		round := session.Round{ID: fmt.Sprintf("round-%d", i), SessionID: "sess-1", Number: i}
		if err := sessions.CreateRound(ctx, round); err != nil {
			t.Fatalf("seed round: %v", err)
		}
		pod := session.Pod{ID: fmt.Sprintf("pod-%d", i), RoundID: round.ID}
		if err := sessions.CreatePod(ctx, pod); err != nil {
			t.Fatalf("seed pod: %v", err)
		}
		memberships := []session.PodMembership{{PodID: pod.ID, ParticipantIDs: []string{"p1", "p2", "p3", "p4"}}}
		if err := sessions.ReplaceRoundMemberships(ctx, round.ID, memberships); err != nil {
			t.Fatalf("seed memberships: %v", err)
		}
	}

	service := NewScoresheetService(
		sessions,
		achievements,
		colors,
		sheets,
		cards,
		&seqIDGenerator{prefix: "grant"},
		logging.NewNop(),
		notifier,
	)

	return &scoresheetFixture{
		sessions:     sessions,
		achievements: achievements,
		sheets:       sheets,
		notifier:     notifier,
		service:      service,
	}
}

func decisiveOutcome(mutate func(*scoresheet.DecisiveOutcome)) scoresheet.Outcome {
	decisive := &scoresheet.DecisiveOutcome{
		WinnerID:        "p1",
		CommanderCardID: "card-tymna",
		PartnerCardID:   "card-thrasios",
		PodCategories: scoresheet.PodCategories{
			BroughtSnack: []string{"p2"},
			KnockedOut:   []string{"p1"},
		},
		WinnerFlags: scoresheet.WinnerFlags{CommanderDamage: true},
	}
	if mutate != nil {
		mutate(decisive)
	}
	return scoresheet.Outcome{Decisive: decisive}
}

func activeGrants(t *testing.T, f *scoresheetFixture, roundID string) map[string]achievement.Grant {
	t.Helper()

	grants, err := f.achievements.ListGrantsByRound(t.Context(), roundID)
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	out := make(map[string]achievement.Grant)
	for _, grant := range grants {
		if grant.DeletedAt == nil {
			out[grant.ParticipantID+"/"+grant.AchievementID] = grant
		}
	}
	return out
}

func TestScoresheetService_SubmitDecisive(t *testing.T) {
	f := newScoresheetFixture(t)

	result, err := f.service.Submit(t.Context(), "pod-1", decisiveOutcome(nil))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if result.Commander.Name != "Tymna the Weaver+Thrasios, Triton Hero" {
		t.Fatalf("unexpected commander name: %s", result.Commander.Name)
	}
	if result.Commander.ColorID == nil || *result.Commander.ColorID != "color-wubg" {
		t.Fatalf("unexpected commander color: %v", result.Commander.ColorID)
	}
	if result.Commander.ParticipantID == nil || *result.Commander.ParticipantID != "p1" {
		t.Fatalf("unexpected commander participant: %v", result.Commander.ParticipantID)
	}

	grants := activeGrants(t, f, "round-1")
	for _, key := range []string{
		"p2/ach-brought-snack",
		"p1/ach-knocked-out",
		"p1/ach-commander-damage",
		"p1/ach-win-4-colors",
	} {
		if _, ok := grants[key]; !ok {
			t.Fatalf("missing grant %s, have %v", key, grants)
		}
	}
	if len(grants) != 4 {
		t.Fatalf("expected 4 grants, got %d", len(grants))
	}
	if got := grants["p1/ach-win-4-colors"].EarnedPoints; got != 4 {
		t.Fatalf("expected 4 points for win-4-colors, got %d", got)
	}
}

func TestScoresheetService_ResubmitSameOutcomeIsNoop(t *testing.T) {
	f := newScoresheetFixture(t)

	if _, err := f.service.Submit(t.Context(), "pod-1", decisiveOutcome(nil)); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	before := activeGrants(t, f, "round-1")

	result, err := f.service.Submit(t.Context(), "pod-1", decisiveOutcome(nil))
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if result.GrantsCreated != 0 || result.GrantsRevoked != 0 {
		t.Fatalf("expected noop, created=%d revoked=%d", result.GrantsCreated, result.GrantsRevoked)
	}

	after := activeGrants(t, f, "round-1")
	for key, grant := range before {
		if after[key].ID != grant.ID {
			t.Fatalf("grant %s id changed on resubmit", key)
		}
	}
}

func TestScoresheetService_ResubmitDiffTouchesOnlyChangedSlots(t *testing.T) {
	f := newScoresheetFixture(t)

	if _, err := f.service.Submit(t.Context(), "pod-1", decisiveOutcome(nil)); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	before := activeGrants(t, f, "round-1")

	changed := decisiveOutcome(func(d *scoresheet.DecisiveOutcome) {
		d.PodCategories.BroughtSnack = []string{"p3"}
	})
	result, err := f.service.Submit(t.Context(), "pod-1", changed)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if result.GrantsCreated != 1 || result.GrantsRevoked != 1 {
		t.Fatalf("expected 1 create and 1 revoke, got created=%d revoked=%d", result.GrantsCreated, result.GrantsRevoked)
	}

	after := activeGrants(t, f, "round-1")
	if _, ok := after["p2/ach-brought-snack"]; ok {
		t.Fatalf("expected p2 snack grant revoked")
	}
	if _, ok := after["p3/ach-brought-snack"]; !ok {
		t.Fatalf("expected p3 snack grant created")
	}
	if after["p1/ach-knocked-out"].ID != before["p1/ach-knocked-out"].ID {
		t.Fatalf("untouched grant was replaced")
	}
}

func TestScoresheetService_SubmitDraw(t *testing.T) {
	f := newScoresheetFixture(t)

	result, err := f.service.Submit(t.Context(), "pod-1", scoresheet.Outcome{Draw: &scoresheet.DrawOutcome{}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if result.Commander.Name != scoresheet.DrawCommanderName {
		t.Fatalf("expected draw sentinel, got %s", result.Commander.Name)
	}
	if result.Commander.ColorID != nil || result.Commander.ParticipantID != nil {
		t.Fatalf("expected nil color and participant for draw")
	}

	grants := activeGrants(t, f, "round-1")
	for _, participantID := range []string{"p1", "p2", "p3", "p4"} {
		if _, ok := grants[participantID+"/ach-end-draw"]; !ok {
			t.Fatalf("missing end-draw grant for %s", participantID)
		}
	}
	if len(grants) != 4 {
		t.Fatalf("expected 4 grants, got %d", len(grants))
	}
}

func TestScoresheetService_DecisiveOverwritesDraw(t *testing.T) {
	f := newScoresheetFixture(t)

	if _, err := f.service.Submit(t.Context(), "pod-1", scoresheet.Outcome{Draw: &scoresheet.DrawOutcome{}}); err != nil {
		t.Fatalf("draw submit failed: %v", err)
	}
	if _, err := f.service.Submit(t.Context(), "pod-1", decisiveOutcome(nil)); err != nil {
		t.Fatalf("decisive resubmit failed: %v", err)
	}

	grants := activeGrants(t, f, "round-1")
	for key := range grants {
		if key == "p1/ach-end-draw" || key == "p2/ach-end-draw" {
			t.Fatalf("stale end-draw grant survived: %s", key)
		}
	}

	commander, err := f.service.GetPodCommander(t.Context(), "pod-1")
	if err != nil {
		t.Fatalf("get commander failed: %v", err)
	}
	if commander.Name == scoresheet.DrawCommanderName {
		t.Fatalf("commander row still holds the draw sentinel")
	}
}

func TestScoresheetService_ColorlessCommander(t *testing.T) {
	f := newScoresheetFixture(t)

	outcome := decisiveOutcome(func(d *scoresheet.DecisiveOutcome) {
		d.CommanderCardID = "card-kozilek"
		d.PartnerCardID = ""
	})
	result, err := f.service.Submit(t.Context(), "pod-1", outcome)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if result.Commander.ColorID == nil || *result.Commander.ColorID != "color-c" {
		t.Fatalf("expected colorless identity, got %v", result.Commander.ColorID)
	}
	grants := activeGrants(t, f, "round-1")
	for key := range grants {
		if key == "p1/ach-win-1-colors" {
			t.Fatalf("colorless win must not earn a win-colors grant")
		}
	}
}

func TestScoresheetService_ValidationErrors(t *testing.T) {
	f := newScoresheetFixture(t)

	cases := []struct {
		name    string
		podID   string
		outcome scoresheet.Outcome
		want    error
	}{
		{
			name:    "missing commander",
			podID:   "pod-1",
			outcome: decisiveOutcome(func(d *scoresheet.DecisiveOutcome) { d.CommanderCardID = "" }),
			want:    ErrMissingCommander,
		},
		{
			name:    "winner not seated",
			podID:   "pod-1",
			outcome: decisiveOutcome(func(d *scoresheet.DecisiveOutcome) { d.WinnerID = "p9" }),
			want:    ErrInvalidInput,
		},
		{
			name:    "category participant not seated",
			podID:   "pod-1",
			outcome: decisiveOutcome(func(d *scoresheet.DecisiveOutcome) { d.PodCategories.LentDeck = []string{"p9"} }),
			want:    ErrInvalidInput,
		},
		{
			name:    "unknown card",
			podID:   "pod-1",
			outcome: decisiveOutcome(func(d *scoresheet.DecisiveOutcome) { d.CommanderCardID = "card-nope" }),
			want:    ErrInvalidInput,
		},
		{
			name:    "unknown pod",
			podID:   "pod-9",
			outcome: decisiveOutcome(nil),
			want:    ErrNotFound,
		},
		{
			name:    "empty outcome",
			podID:   "pod-1",
			outcome: scoresheet.Outcome{},
			want:    ErrInvalidInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Submit(t.Context(), tc.podID, tc.outcome)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestScoresheetService_LifecycleCompletesRoundAndClosesSession(t *testing.T) {
	f := newScoresheetFixture(t)
	ctx := t.Context()

	result, err := f.service.Submit(ctx, "pod-1", decisiveOutcome(nil))
	if err != nil {
		t.Fatalf("round 1 submit failed: %v", err)
	}
	if !result.RoundCompleted {
		t.Fatalf("expected round 1 completed")
	}
	if result.SessionClosed {
		t.Fatalf("round 1 must not close the session")
	}

	round, _, err := f.sessions.GetRoundByID(ctx, "round-1")
	if err != nil || !round.Completed {
		t.Fatalf("round 1 not marked completed: %v", err)
	}

	result, err = f.service.Submit(ctx, "pod-2", decisiveOutcome(nil))
	if err != nil {
		t.Fatalf("round 2 submit failed: %v", err)
	}
	if !result.RoundCompleted || !result.SessionClosed {
		t.Fatalf("expected round 2 completion to close the session, got %+v", result)
	}

	sess, _, err := f.sessions.GetSessionByID(ctx, "sess-1")
	if err != nil || !sess.Closed {
		t.Fatalf("session not closed: %v", err)
	}

	if len(f.notifier.roundsCompleted) != 2 || len(f.notifier.sessionsClosed) != 1 {
		t.Fatalf("unexpected notifications: rounds=%v sessions=%v", f.notifier.roundsCompleted, f.notifier.sessionsClosed)
	}
}

func TestScoresheetService_PartialRoundStaysOpen(t *testing.T) {
	f := newScoresheetFixture(t)
	ctx := t.Context()

	if err := f.sessions.CreatePod(ctx, session.Pod{ID: "pod-1b", RoundID: "round-1"}); err != nil {
		t.Fatalf("seed pod: %v", err)
	}
	memberships := []session.PodMembership{
		{PodID: "pod-1", ParticipantIDs: []string{"p1", "p2", "p3", "p4"}},
		{PodID: "pod-1b", ParticipantIDs: []string{"p5", "p6", "p7"}},
	}
	if err := f.sessions.ReplaceRoundMemberships(ctx, "round-1", memberships); err != nil {
		t.Fatalf("seed memberships: %v", err)
	}

	result, err := f.service.Submit(ctx, "pod-1", decisiveOutcome(nil))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.RoundCompleted {
		t.Fatalf("round must stay open while pod-1b is unsubmitted")
	}
}

func TestScoresheetService_WinnerChangeMovesWinnerGrants(t *testing.T) {
	f := newScoresheetFixture(t)

	if _, err := f.service.Submit(t.Context(), "pod-1", decisiveOutcome(nil)); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	before := activeGrants(t, f, "round-1")

	changed := decisiveOutcome(func(d *scoresheet.DecisiveOutcome) {
		d.WinnerID = "p2"
		d.WinnerFlags.CommanderDamage = false
	})
	result, err := f.service.Submit(t.Context(), "pod-1", changed)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	after := activeGrants(t, f, "round-1")
	if _, ok := after["p1/ach-win-4-colors"]; ok {
		t.Fatalf("expected previous winner's color grant revoked")
	}
	if _, ok := after["p1/ach-commander-damage"]; ok {
		t.Fatalf("expected previous winner's flag grant revoked")
	}
	if _, ok := after["p2/ach-win-4-colors"]; !ok {
		t.Fatalf("expected color grant to follow new winner, have %v", after)
	}
	if after["p2/ach-brought-snack"].ID != before["p2/ach-brought-snack"].ID {
		t.Fatalf("pod-wide grant must survive a winner change untouched")
	}

	if result.Commander.ParticipantID == nil || *result.Commander.ParticipantID != "p2" {
		t.Fatalf("commander record must track the new winner: %v", result.Commander.ParticipantID)
	}
}
