package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/domain/participant"
	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/platform/cache"
	"github.com/tapcycle/commander-league/internal/platform/id"
	"github.com/tapcycle/commander-league/internal/platform/logging"
)

// SigninService backs the chat-bot sign-in flow: linking chat accounts
// to participants by code, staging round selections, and recording the
// participation grants that put a participant on a round's roster.
type SigninService struct {
	participantRepo participant.Repository
	sessionRepo     session.Repository
	achievementRepo achievement.Repository
	selections      *cache.Store
	ids             id.Generator
	logger          *logging.Logger
	now             func() time.Time
}

// RoundSignup is one round of the open session with its current roster
// size, for the bot's sign-in prompt.
type RoundSignup struct {
	RoundID     string
	RoundNumber int
	Completed   bool
	SignedIn    int
}

type stagedSelection struct {
	RoundIDs []string
}

func NewSigninService(
	participantRepo participant.Repository,
	sessionRepo session.Repository,
	achievementRepo achievement.Repository,
	selections *cache.Store,
	ids id.Generator,
	logger *logging.Logger,
) *SigninService {
	return &SigninService{
		participantRepo: participantRepo,
		sessionRepo:     sessionRepo,
		achievementRepo: achievementRepo,
		selections:      selections,
		ids:             ids,
		logger:          logger,
		now:             time.Now,
	}
}

// LinkByCode binds a chat account to the participant owning the sign-in
// code. Relinking the same account is idempotent; stealing a code that
// is already bound elsewhere is rejected.
func (s *SigninService) LinkByCode(ctx context.Context, code, externalRef string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SigninService.LinkByCode")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	externalRef = strings.TrimSpace(externalRef)
	if code == "" {
		return participant.Participant{}, fmt.Errorf("%w: sign-in code is required", ErrInvalidInput)
	}
	if externalRef == "" {
		return participant.Participant{}, fmt.Errorf("%w: external ref is required", ErrInvalidInput)
	}

	item, exists, err := s.participantRepo.GetByCode(ctx, code)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant by code: %w", err)
	}
	if !exists || item.DeletedAt != nil {
		return participant.Participant{}, fmt.Errorf("%w: no participant for that code", ErrNotFound)
	}

	if item.ExternalRef == externalRef {
		return item, nil
	}
	if item.ExternalRef != "" {
		return participant.Participant{}, fmt.Errorf("%w: code is already linked", ErrInvalidInput)
	}

	if err := s.participantRepo.LinkExternalRef(ctx, item.ID, externalRef); err != nil {
		return participant.Participant{}, fmt.Errorf("link external ref: %w", err)
	}
	item.ExternalRef = externalRef

	s.logger.InfoContext(ctx, "linked chat account", "participant_id", item.ID)

	return item, nil
}

// OpenRounds lists the open session's rounds with roster sizes.
func (s *SigninService) OpenRounds(ctx context.Context) ([]RoundSignup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SigninService.OpenRounds")
	defer span.End()

	open, exists, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("get open session: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no open session", ErrNotFound)
	}

	rounds, err := s.sessionRepo.ListRoundsBySession(ctx, open.ID)
	if err != nil {
		return nil, fmt.Errorf("list rounds by session: %w", err)
	}

	participation, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugParticipation)
	if err != nil {
		return nil, err
	}

	out := make([]RoundSignup, 0, len(rounds))
	for _, round := range rounds {
		grants, err := s.achievementRepo.ListGrantsByRound(ctx, round.ID)
		if err != nil {
			return nil, fmt.Errorf("list grants by round: %w", err)
		}

		signedIn := 0
		for _, grant := range grants {
			if grant.AchievementID == participation.ID && grant.DeletedAt == nil {
				signedIn++
			}
		}
		out = append(out, RoundSignup{
			RoundID:     round.ID,
			RoundNumber: round.Number,
			Completed:   round.Completed,
			SignedIn:    signedIn,
		})
	}

	return out, nil
}

// StageSelection parks a chat user's round choices until they confirm.
// Selections expire with the store's TTL.
func (s *SigninService) StageSelection(ctx context.Context, guildID, userID string, roundIDs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SigninService.StageSelection")
	defer span.End()

	guildID = strings.TrimSpace(guildID)
	userID = strings.TrimSpace(userID)
	if guildID == "" || userID == "" {
		return fmt.Errorf("%w: guild id and user id are required", ErrInvalidInput)
	}

	roundIDs = dedupeIDs(roundIDs)
	if len(roundIDs) == 0 {
		return fmt.Errorf("%w: at least one round is required", ErrInvalidInput)
	}
	for _, roundID := range roundIDs {
		round, exists, err := s.sessionRepo.GetRoundByID(ctx, roundID)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
		}
		if round.Completed {
			return fmt.Errorf("%w: round %s is completed", ErrInvalidInput, roundID)
		}
	}

	s.selections.Set(ctx, selectionKey(guildID, userID), stagedSelection{RoundIDs: roundIDs})

	return nil
}

// ConfirmSignIn applies a staged selection: the chat user's linked
// participant gains a participation grant for each chosen round.
func (s *SigninService) ConfirmSignIn(ctx context.Context, guildID, userID, externalRef string) (participant.Participant, []string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SigninService.ConfirmSignIn")
	defer span.End()

	guildID = strings.TrimSpace(guildID)
	userID = strings.TrimSpace(userID)
	if guildID == "" || userID == "" {
		return participant.Participant{}, nil, fmt.Errorf("%w: guild id and user id are required", ErrInvalidInput)
	}

	key := selectionKey(guildID, userID)
	value, ok := s.selections.Get(ctx, key)
	if !ok {
		return participant.Participant{}, nil, fmt.Errorf("%w: no pending selection", ErrNotFound)
	}
	staged, ok := value.(stagedSelection)
	if !ok || len(staged.RoundIDs) == 0 {
		s.selections.Delete(ctx, key)
		return participant.Participant{}, nil, fmt.Errorf("%w: no pending selection", ErrNotFound)
	}

	item, err := s.RecordSignIn(ctx, externalRef, staged.RoundIDs)
	if err != nil {
		return participant.Participant{}, nil, err
	}
	s.selections.Delete(ctx, key)

	return item, staged.RoundIDs, nil
}

// RecordSignIn grants participation for each round to the participant
// linked to the chat account. Signing in twice for a round is a no-op.
func (s *SigninService) RecordSignIn(ctx context.Context, externalRef string, roundIDs []string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SigninService.RecordSignIn")
	defer span.End()

	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return participant.Participant{}, fmt.Errorf("%w: external ref is required", ErrInvalidInput)
	}

	item, exists, err := s.participantRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant by external ref: %w", err)
	}
	if !exists || item.DeletedAt != nil {
		return participant.Participant{}, fmt.Errorf("%w: chat account is not linked", ErrNotFound)
	}

	participation, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugParticipation)
	if err != nil {
		return participant.Participant{}, err
	}

	roundIDs = dedupeIDs(roundIDs)
	if len(roundIDs) == 0 {
		return participant.Participant{}, fmt.Errorf("%w: at least one round is required", ErrInvalidInput)
	}

	for _, roundID := range roundIDs {
		round, exists, err := s.sessionRepo.GetRoundByID(ctx, roundID)
		if err != nil {
			return participant.Participant{}, fmt.Errorf("get round: %w", err)
		}
		if !exists {
			return participant.Participant{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
		}
		if round.Completed {
			return participant.Participant{}, fmt.Errorf("%w: round %s is completed", ErrInvalidInput, roundID)
		}

		already, err := s.hasParticipation(ctx, round.ID, item.ID, participation.ID)
		if err != nil {
			return participant.Participant{}, err
		}
		if already {
			continue
		}

		grantID, err := s.ids.NewID()
		if err != nil {
			return participant.Participant{}, fmt.Errorf("generate grant id: %w", err)
		}
		grant := achievement.Grant{
			ID:            grantID,
			ParticipantID: item.ID,
			AchievementID: participation.ID,
			RoundID:       round.ID,
			SessionID:     round.SessionID,
			EarnedPoints:  participation.EffectivePoints(),
			CreatedAt:     s.now().UTC(),
		}
		if err := s.achievementRepo.CreateGrant(ctx, grant); err != nil {
			return participant.Participant{}, fmt.Errorf("create participation grant: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "participant signed in",
		"participant_id", item.ID,
		"rounds", len(roundIDs),
	)

	return item, nil
}

func (s *SigninService) hasParticipation(ctx context.Context, roundID, participantID, participationID string) (bool, error) {
	grants, err := s.achievementRepo.ListGrantsByRound(ctx, roundID)
	if err != nil {
		return false, fmt.Errorf("list grants by round: %w", err)
	}
	for _, grant := range grants {
		if grant.ParticipantID == participantID && grant.AchievementID == participationID && grant.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func selectionKey(guildID, userID string) string {
	return "signin:selection:" + guildID + ":" + userID
}
