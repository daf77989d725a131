package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/domain/pods"
	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/platform/id"
	"github.com/tapcycle/commander-league/internal/platform/logging"
)

type RoundService struct {
	sessionRepo     session.Repository
	achievementRepo achievement.Repository
	ids             id.Generator
	logger          *logging.Logger
	now             func() time.Time
	shuffle         func(n int, swap func(i, j int))
}

// RoundDetail is a round with its pods and seat assignments in pod
// creation order.
type RoundDetail struct {
	Round session.Round
	Pods  []PodDetail
}

type PodDetail struct {
	Pod            session.Pod
	ParticipantIDs []string
}

func NewRoundService(
	sessionRepo session.Repository,
	achievementRepo achievement.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *RoundService {
	return &RoundService{
		sessionRepo:     sessionRepo,
		achievementRepo: achievementRepo,
		ids:             ids,
		logger:          logger,
		now:             time.Now,
		shuffle:         rand.Shuffle,
	}
}

func (s *RoundService) Get(ctx context.Context, roundID string) (RoundDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Get")
	defer span.End()

	round, err := s.requireRound(ctx, roundID)
	if err != nil {
		return RoundDetail{}, err
	}

	return s.detail(ctx, round)
}

// SeedPods forms the round's pods from everyone signed in to the round.
// Round 1 seats in random order; round 2 seats by session standings so
// tables are skill-matched, points descending with participant id as the
// stable tie-break.
func (s *RoundService) SeedPods(ctx context.Context, roundID string) (RoundDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.SeedPods")
	defer span.End()

	round, err := s.requireRound(ctx, roundID)
	if err != nil {
		return RoundDetail{}, err
	}
	if round.Completed {
		return RoundDetail{}, fmt.Errorf("%w: round %s is completed", ErrInvalidInput, round.ID)
	}

	existing, err := s.sessionRepo.ListPodsByRound(ctx, round.ID)
	if err != nil {
		return RoundDetail{}, fmt.Errorf("list pods by round: %w", err)
	}
	if len(existing) > 0 {
		return RoundDetail{}, fmt.Errorf("%w: round %s already has pods, reroll instead", ErrInvalidInput, round.ID)
	}

	roster, err := s.roundRoster(ctx, round.ID)
	if err != nil {
		return RoundDetail{}, err
	}

	ordered, err := s.orderRoster(ctx, round, roster)
	if err != nil {
		return RoundDetail{}, err
	}

	groups, err := s.partition(ordered)
	if err != nil {
		return RoundDetail{}, err
	}

	memberships := make([]session.PodMembership, 0, len(groups))
	for _, group := range groups {
		podID, err := s.ids.NewID()
		if err != nil {
			return RoundDetail{}, fmt.Errorf("generate pod id: %w", err)
		}
		if err := s.sessionRepo.CreatePod(ctx, session.Pod{ID: podID, RoundID: round.ID}); err != nil {
			return RoundDetail{}, fmt.Errorf("create pod: %w", err)
		}
		memberships = append(memberships, session.PodMembership{PodID: podID, ParticipantIDs: group})
	}

	if err := s.sessionRepo.ReplaceRoundMemberships(ctx, round.ID, memberships); err != nil {
		return RoundDetail{}, fmt.Errorf("replace round memberships: %w", err)
	}

	s.logger.InfoContext(ctx, "seeded round pods",
		"round_id", round.ID,
		"round_number", round.Number,
		"participants", len(ordered),
		"pods", len(groups),
	)

	return s.detail(ctx, round)
}

// Reroll re-partitions a round around the given roster. Participants
// dropped from the roster lose their participation grant for the round;
// newcomers gain one. Existing pods are reused in creation order and
// surplus pods are soft-deleted, so pod ids stay stable where possible.
func (s *RoundService) Reroll(ctx context.Context, roundID string, roster []string) (RoundDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Reroll")
	defer span.End()

	round, err := s.requireRound(ctx, roundID)
	if err != nil {
		return RoundDetail{}, err
	}
	if round.Completed {
		return RoundDetail{}, fmt.Errorf("%w: round %s is completed", ErrInvalidInput, round.ID)
	}

	roster = dedupeIDs(roster)
	if err := s.reconcileParticipation(ctx, round, roster); err != nil {
		return RoundDetail{}, err
	}

	ordered, err := s.orderRoster(ctx, round, roster)
	if err != nil {
		return RoundDetail{}, err
	}

	groups, err := s.partition(ordered)
	if err != nil {
		return RoundDetail{}, err
	}

	existing, err := s.sessionRepo.ListPodsByRound(ctx, round.ID)
	if err != nil {
		return RoundDetail{}, fmt.Errorf("list pods by round: %w", err)
	}

	memberships := make([]session.PodMembership, 0, len(groups))
	for i, group := range groups {
		var podID string
		if i < len(existing) {
			podID = existing[i].ID
		} else {
			podID, err = s.ids.NewID()
			if err != nil {
				return RoundDetail{}, fmt.Errorf("generate pod id: %w", err)
			}
			if err := s.sessionRepo.CreatePod(ctx, session.Pod{ID: podID, RoundID: round.ID}); err != nil {
				return RoundDetail{}, fmt.Errorf("create pod: %w", err)
			}
		}
		memberships = append(memberships, session.PodMembership{PodID: podID, ParticipantIDs: group})
	}

	for i := len(groups); i < len(existing); i++ {
		if err := s.sessionRepo.SoftDeletePod(ctx, existing[i].ID); err != nil {
			return RoundDetail{}, fmt.Errorf("soft delete surplus pod: %w", err)
		}
	}

	if err := s.sessionRepo.ReplaceRoundMemberships(ctx, round.ID, memberships); err != nil {
		return RoundDetail{}, fmt.Errorf("replace round memberships: %w", err)
	}

	s.logger.InfoContext(ctx, "rerolled round pods",
		"round_id", round.ID,
		"participants", len(ordered),
		"pods", len(groups),
	)

	return s.detail(ctx, round)
}

func (s *RoundService) requireRound(ctx context.Context, roundID string) (session.Round, error) {
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return session.Round{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	round, exists, err := s.sessionRepo.GetRoundByID(ctx, roundID)
	if err != nil {
		return session.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return session.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	return round, nil
}

// roundRoster lists everyone holding a participation grant for the
// round, in grant creation order.
func (s *RoundService) roundRoster(ctx context.Context, roundID string) ([]string, error) {
	participation, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugParticipation)
	if err != nil {
		return nil, err
	}

	grants, err := s.achievementRepo.ListGrantsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("list grants by round: %w", err)
	}

	roster := make([]string, 0, len(grants))
	seen := make(map[string]struct{}, len(grants))
	for _, grant := range grants {
		if grant.AchievementID != participation.ID || grant.DeletedAt != nil {
			continue
		}
		if _, dup := seen[grant.ParticipantID]; dup {
			continue
		}
		seen[grant.ParticipantID] = struct{}{}
		roster = append(roster, grant.ParticipantID)
	}

	return roster, nil
}

func (s *RoundService) orderRoster(ctx context.Context, round session.Round, roster []string) ([]string, error) {
	ordered := make([]string, len(roster))
	copy(ordered, roster)

	if round.Number == 1 {
		s.shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
		return ordered, nil
	}

	grants, err := s.achievementRepo.ListGrantsBySession(ctx, round.SessionID)
	if err != nil {
		return nil, fmt.Errorf("list grants by session: %w", err)
	}

	points := make(map[string]int, len(roster))
	for _, grant := range grants {
		if grant.DeletedAt != nil {
			continue
		}
		points[grant.ParticipantID] += grant.EarnedPoints
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if points[ordered[i]] != points[ordered[j]] {
			return points[ordered[i]] > points[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})

	return ordered, nil
}

func (s *RoundService) partition(ordered []string) ([][]string, error) {
	groups, err := pods.Partition(ordered)
	if err != nil {
		if errors.Is(err, pods.ErrTooFewParticipants) {
			return nil, fmt.Errorf("%w: %d signed in", ErrInsufficientParticipants, len(ordered))
		}
		return nil, fmt.Errorf("partition roster: %w", err)
	}

	return groups, nil
}

// reconcileParticipation aligns the round's participation grants with
// the new roster before re-partitioning.
func (s *RoundService) reconcileParticipation(ctx context.Context, round session.Round, roster []string) error {
	participation, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugParticipation)
	if err != nil {
		return err
	}

	grants, err := s.achievementRepo.ListGrantsByRound(ctx, round.ID)
	if err != nil {
		return fmt.Errorf("list grants by round: %w", err)
	}

	inRoster := make(map[string]struct{}, len(roster))
	for _, participantID := range roster {
		inRoster[participantID] = struct{}{}
	}

	granted := make(map[string]struct{})
	for _, grant := range grants {
		if grant.AchievementID != participation.ID || grant.DeletedAt != nil {
			continue
		}
		if _, keep := inRoster[grant.ParticipantID]; !keep {
			if err := s.achievementRepo.SoftDeleteGrant(ctx, grant.ID); err != nil {
				return fmt.Errorf("revoke participation grant: %w", err)
			}
			continue
		}
		granted[grant.ParticipantID] = struct{}{}
	}

	for _, participantID := range roster {
		if _, ok := granted[participantID]; ok {
			continue
		}
		grantID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate grant id: %w", err)
		}
		grant := achievement.Grant{
			ID:            grantID,
			ParticipantID: participantID,
			AchievementID: participation.ID,
			RoundID:       round.ID,
			SessionID:     round.SessionID,
			EarnedPoints:  participation.EffectivePoints(),
			CreatedAt:     s.now().UTC(),
		}
		if err := s.achievementRepo.CreateGrant(ctx, grant); err != nil {
			return fmt.Errorf("create participation grant: %w", err)
		}
	}

	return nil
}

func (s *RoundService) detail(ctx context.Context, round session.Round) (RoundDetail, error) {
	podRows, err := s.sessionRepo.ListPodsByRound(ctx, round.ID)
	if err != nil {
		return RoundDetail{}, fmt.Errorf("list pods by round: %w", err)
	}

	memberships, err := s.sessionRepo.ListMembershipsByRound(ctx, round.ID)
	if err != nil {
		return RoundDetail{}, fmt.Errorf("list memberships by round: %w", err)
	}
	byPod := make(map[string][]string, len(memberships))
	for _, m := range memberships {
		byPod[m.PodID] = m.ParticipantIDs
	}

	out := RoundDetail{Round: round, Pods: make([]PodDetail, 0, len(podRows))}
	for _, pod := range podRows {
		out.Pods = append(out.Pods, PodDetail{Pod: pod, ParticipantIDs: byPod[pod.ID]})
	}

	return out, nil
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, item := range ids {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
