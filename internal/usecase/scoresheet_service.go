package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/domain/card"
	"github.com/tapcycle/commander-league/internal/domain/color"
	"github.com/tapcycle/commander-league/internal/domain/scoresheet"
	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/platform/id"
	"github.com/tapcycle/commander-league/internal/platform/logging"
)

type ScoresheetService struct {
	sessionRepo     session.Repository
	achievementRepo achievement.Repository
	colorRepo       color.Repository
	sheetRepo       scoresheet.Repository
	cards           card.Catalog
	ids             id.Generator
	logger          *logging.Logger
	notifier        BotNotifier
	now             func() time.Time
}

// SubmitResult reports what a submission changed, including any
// lifecycle transitions it triggered.
type SubmitResult struct {
	Commander      scoresheet.WinningCommander
	GrantsCreated  int
	GrantsRevoked  int
	RoundCompleted bool
	SessionClosed  bool
}

// grantSlot identifies one participant/achievement pairing in a round.
// Resubmission diffs are computed slot by slot so untouched grants keep
// their snapshotted points.
type grantSlot struct {
	participantID string
	achievementID string
}

func NewScoresheetService(
	sessionRepo session.Repository,
	achievementRepo achievement.Repository,
	colorRepo color.Repository,
	sheetRepo scoresheet.Repository,
	cards card.Catalog,
	ids id.Generator,
	logger *logging.Logger,
	notifier BotNotifier,
) *ScoresheetService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ScoresheetService{
		sessionRepo:     sessionRepo,
		achievementRepo: achievementRepo,
		colorRepo:       colorRepo,
		sheetRepo:       sheetRepo,
		cards:           cards,
		ids:             ids,
		logger:          logger,
		notifier:        notifier,
		now:             time.Now,
	}
}

// Submit records or re-records a pod's scoresheet. The declared outcome
// is expanded into the full set of grants it implies, diffed against the
// grants already on the books for the pod's seats, and the difference is
// applied atomically together with the winning-commander upsert.
// Resubmitting the same outcome is a no-op on the grant ledger.
func (s *ScoresheetService) Submit(ctx context.Context, podID string, outcome scoresheet.Outcome) (SubmitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoresheetService.Submit")
	defer span.End()

	if err := outcome.Validate(); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	podID = strings.TrimSpace(podID)
	if podID == "" {
		return SubmitResult{}, fmt.Errorf("%w: pod id is required", ErrInvalidInput)
	}

	pod, exists, err := s.sessionRepo.GetPodByID(ctx, podID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("get pod: %w", err)
	}
	if !exists || pod.DeletedAt != nil {
		return SubmitResult{}, fmt.Errorf("%w: pod=%s", ErrNotFound, podID)
	}

	round, exists, err := s.sessionRepo.GetRoundByID(ctx, pod.RoundID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return SubmitResult{}, fmt.Errorf("%w: round=%s", ErrNotFound, pod.RoundID)
	}

	seated, err := s.sessionRepo.ListParticipantsByPod(ctx, podID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("list pod participants: %w", err)
	}
	if len(seated) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: pod %s has no participants", ErrInvalidInput, podID)
	}
	seatedSet := make(map[string]struct{}, len(seated))
	for _, participantID := range seated {
		seatedSet[participantID] = struct{}{}
	}

	desired, commander, err := s.expandOutcome(ctx, pod, outcome, seated, seatedSet)
	if err != nil {
		return SubmitResult{}, err
	}

	mutations, err := s.diffAgainstLedger(ctx, round, seatedSet, desired)
	if err != nil {
		return SubmitResult{}, err
	}
	mutations.PodID = podID
	mutations.Commander = commander

	if err := s.sheetRepo.Apply(ctx, mutations); err != nil {
		return SubmitResult{}, fmt.Errorf("apply scoresheet mutations: %w", err)
	}

	if !pod.Submitted {
		if err := s.sessionRepo.MarkPodSubmitted(ctx, podID); err != nil {
			return SubmitResult{}, fmt.Errorf("mark pod submitted: %w", err)
		}
	}

	result := SubmitResult{
		Commander:     commander,
		GrantsCreated: len(mutations.Creates),
		GrantsRevoked: len(mutations.SoftDeleteGrantIDs),
	}
	if err := s.advanceLifecycle(ctx, round, &result); err != nil {
		return SubmitResult{}, err
	}

	s.logger.InfoContext(ctx, "scoresheet applied",
		"pod_id", podID,
		"round_id", round.ID,
		"commander", commander.Name,
		"grants_created", result.GrantsCreated,
		"grants_revoked", result.GrantsRevoked,
		"round_completed", result.RoundCompleted,
		"session_closed", result.SessionClosed,
	)

	return result, nil
}

// GetPodCommander returns the recorded winning commander of a pod.
func (s *ScoresheetService) GetPodCommander(ctx context.Context, podID string) (scoresheet.WinningCommander, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoresheetService.GetPodCommander")
	defer span.End()

	podID = strings.TrimSpace(podID)
	if podID == "" {
		return scoresheet.WinningCommander{}, fmt.Errorf("%w: pod id is required", ErrInvalidInput)
	}

	item, exists, err := s.sheetRepo.GetWinningCommanderByPod(ctx, podID)
	if err != nil {
		return scoresheet.WinningCommander{}, fmt.Errorf("get winning commander: %w", err)
	}
	if !exists {
		return scoresheet.WinningCommander{}, fmt.Errorf("%w: no scoresheet for pod=%s", ErrNotFound, podID)
	}

	return item, nil
}

// expandOutcome turns the declared outcome into the desired grant slots
// and the winning-commander row.
func (s *ScoresheetService) expandOutcome(
	ctx context.Context,
	pod session.Pod,
	outcome scoresheet.Outcome,
	seated []string,
	seatedSet map[string]struct{},
) (map[grantSlot]achievement.Achievement, scoresheet.WinningCommander, error) {
	desired := make(map[grantSlot]achievement.Achievement)

	if outcome.Draw != nil {
		endDraw, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugEndDraw)
		if err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
		for _, participantID := range seated {
			desired[grantSlot{participantID, endDraw.ID}] = endDraw
		}

		commander := scoresheet.WinningCommander{
			PodID: pod.ID,
			Name:  scoresheet.DrawCommanderName,
		}
		return desired, commander, nil
	}

	decisive := *outcome.Decisive
	winnerID := strings.TrimSpace(decisive.WinnerID)
	if winnerID == "" {
		return nil, scoresheet.WinningCommander{}, fmt.Errorf("%w: winner id is required", ErrInvalidInput)
	}
	if _, ok := seatedSet[winnerID]; !ok {
		return nil, scoresheet.WinningCommander{}, fmt.Errorf("%w: winner %s is not seated in pod %s", ErrInvalidInput, winnerID, pod.ID)
	}
	if strings.TrimSpace(decisive.CommanderCardID) == "" {
		return nil, scoresheet.WinningCommander{}, ErrMissingCommander
	}

	commanderCard, err := s.resolveCard(ctx, decisive.CommanderCardID)
	if err != nil {
		return nil, scoresheet.WinningCommander{}, err
	}
	name := commanderCard.Name
	symbols := append([]string(nil), commanderCard.ColorSymbols...)

	if strings.TrimSpace(decisive.PartnerCardID) != "" {
		partnerCard, err := s.resolveCard(ctx, decisive.PartnerCardID)
		if err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
		name = name + "+" + partnerCard.Name
		symbols = append(symbols, partnerCard.ColorSymbols...)
	}

	// The companion sits outside the command zone for color identity; it
	// is resolved only to catch a bogus id early.
	if strings.TrimSpace(decisive.CompanionCardID) != "" {
		if _, err := s.resolveCard(ctx, decisive.CompanionCardID); err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
	}

	identity, colorCount, err := s.resolveColorIdentity(ctx, symbols)
	if err != nil {
		return nil, scoresheet.WinningCommander{}, err
	}

	if err := s.addCategorySlots(ctx, desired, decisive.PodCategories, seatedSet, pod.ID); err != nil {
		return nil, scoresheet.WinningCommander{}, err
	}

	if decisive.WinnerFlags.LastInTurnOrder {
		if err := s.addSlugSlot(ctx, desired, achievement.SlugLastInTurnOrder, winnerID); err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
	}
	if decisive.WinnerFlags.CommanderDamage {
		if err := s.addSlugSlot(ctx, desired, achievement.SlugCommanderDamage, winnerID); err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
	}
	if colorCount > 0 {
		if err := s.addSlugSlot(ctx, desired, achievement.WinColorsSlug(colorCount), winnerID); err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
	}

	for _, achievementID := range decisive.WinnerAchievementIDs {
		item, exists, err := s.achievementRepo.GetByID(ctx, achievementID)
		if err != nil {
			return nil, scoresheet.WinningCommander{}, fmt.Errorf("get achievement: %w", err)
		}
		if !exists || item.DeletedAt != nil {
			return nil, scoresheet.WinningCommander{}, fmt.Errorf("%w: achievement=%s", ErrInvalidInput, achievementID)
		}
		if err := checkRestrictions(item, winnerID); err != nil {
			return nil, scoresheet.WinningCommander{}, err
		}
		desired[grantSlot{winnerID, item.ID}] = item
	}

	commander := scoresheet.WinningCommander{
		PodID:         pod.ID,
		Name:          name,
		ColorID:       &identity.ID,
		ParticipantID: &winnerID,
	}
	return desired, commander, nil
}

// resolveColorIdentity ORs the mono-color masks of the given symbols and
// maps the result to its canonical catalog row. No symbols means a
// colorless identity with a color count of zero.
func (s *ScoresheetService) resolveColorIdentity(ctx context.Context, symbols []string) (color.Color, int, error) {
	masks := make([]int, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToLower(strings.TrimSpace(symbol))
		if symbol == "" || symbol == color.SymbolColorless {
			continue
		}
		mono, exists, err := s.colorRepo.GetBySymbol(ctx, symbol)
		if err != nil {
			return color.Color{}, 0, fmt.Errorf("get color by symbol: %w", err)
		}
		if !exists {
			return color.Color{}, 0, fmt.Errorf("%w: color symbol %q", ErrCatalogIncomplete, symbol)
		}
		masks = append(masks, mono.Mask)
	}

	mask := color.CombineMasks(masks...)
	identity, exists, err := s.colorRepo.GetByMask(ctx, mask)
	if err != nil {
		return color.Color{}, 0, fmt.Errorf("get color by mask: %w", err)
	}
	if !exists {
		return color.Color{}, 0, fmt.Errorf("%w: color mask %d", ErrCatalogIncomplete, mask)
	}

	return identity, color.CountColors(mask), nil
}

func (s *ScoresheetService) resolveCard(ctx context.Context, cardID string) (card.Card, error) {
	cardID = strings.TrimSpace(cardID)
	item, exists, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return card.Card{}, cerrors.Mark(cerrors.Wrapf(err, "resolve card %s", cardID), ErrDependencyUnavailable)
	}
	if !exists {
		return card.Card{}, fmt.Errorf("%w: card=%s", ErrInvalidInput, cardID)
	}

	return item, nil
}

func (s *ScoresheetService) addCategorySlots(
	ctx context.Context,
	desired map[grantSlot]achievement.Achievement,
	categories scoresheet.PodCategories,
	seatedSet map[string]struct{},
	podID string,
) error {
	groups := []struct {
		slug         string
		participants []string
	}{
		{achievement.SlugBroughtSnack, categories.BroughtSnack},
		{achievement.SlugLentDeck, categories.LentDeck},
		{achievement.SlugSubmittedDecklist, categories.SubmittedDecklist},
		{achievement.SlugKnockedOut, categories.KnockedOut},
		{achievement.SlugPrizePool, categories.PrizePool},
	}

	for _, group := range groups {
		if len(group.participants) == 0 {
			continue
		}
		item, err := requireAchievementBySlug(ctx, s.achievementRepo, group.slug)
		if err != nil {
			return err
		}
		for _, participantID := range group.participants {
			participantID = strings.TrimSpace(participantID)
			if _, ok := seatedSet[participantID]; !ok {
				return fmt.Errorf("%w: participant %s is not seated in pod %s", ErrInvalidInput, participantID, podID)
			}
			desired[grantSlot{participantID, item.ID}] = item
		}
	}

	return nil
}

func (s *ScoresheetService) addSlugSlot(
	ctx context.Context,
	desired map[grantSlot]achievement.Achievement,
	slug, participantID string,
) error {
	item, err := requireAchievementBySlug(ctx, s.achievementRepo, slug)
	if err != nil {
		return err
	}
	desired[grantSlot{participantID, item.ID}] = item
	return nil
}

// diffAgainstLedger compares the desired slots with the grants already
// recorded for the pod's seats in this round. Participation grants are
// sign-in state, not scoresheet state, and are never touched here.
func (s *ScoresheetService) diffAgainstLedger(
	ctx context.Context,
	round session.Round,
	seatedSet map[string]struct{},
	desired map[grantSlot]achievement.Achievement,
) (scoresheet.Mutations, error) {
	participation, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugParticipation)
	if err != nil {
		return scoresheet.Mutations{}, err
	}

	previous, err := s.achievementRepo.ListGrantsByRound(ctx, round.ID)
	if err != nil {
		return scoresheet.Mutations{}, fmt.Errorf("list grants by round: %w", err)
	}

	var m scoresheet.Mutations
	kept := make(map[grantSlot]struct{}, len(previous))
	for _, grant := range previous {
		if grant.DeletedAt != nil || grant.AchievementID == participation.ID {
			continue
		}
		if _, seatedHere := seatedSet[grant.ParticipantID]; !seatedHere {
			continue
		}

		slot := grantSlot{grant.ParticipantID, grant.AchievementID}
		_, wanted := desired[slot]
		_, alreadyKept := kept[slot]
		if wanted && !alreadyKept {
			kept[slot] = struct{}{}
			continue
		}
		m.SoftDeleteGrantIDs = append(m.SoftDeleteGrantIDs, grant.ID)
	}

	now := s.now().UTC()
	for slot, item := range desired {
		if _, ok := kept[slot]; ok {
			continue
		}
		grantID, err := s.ids.NewID()
		if err != nil {
			return scoresheet.Mutations{}, fmt.Errorf("generate grant id: %w", err)
		}
		m.Creates = append(m.Creates, achievement.Grant{
			ID:            grantID,
			ParticipantID: slot.participantID,
			AchievementID: slot.achievementID,
			RoundID:       round.ID,
			SessionID:     round.SessionID,
			EarnedPoints:  item.EffectivePoints(),
			CreatedAt:     now,
		})
	}

	return m, nil
}

// advanceLifecycle completes the round once every pod has submitted and
// closes the session when the completed round is the last one. Notifier
// failures are logged, never surfaced.
func (s *ScoresheetService) advanceLifecycle(ctx context.Context, round session.Round, result *SubmitResult) error {
	podRows, err := s.sessionRepo.ListPodsByRound(ctx, round.ID)
	if err != nil {
		return fmt.Errorf("list pods by round: %w", err)
	}
	for _, pod := range podRows {
		if pod.DeletedAt != nil {
			continue
		}
		if !pod.Submitted {
			return nil
		}
	}

	if !round.Completed {
		if err := s.sessionRepo.MarkRoundCompleted(ctx, round.ID); err != nil {
			return fmt.Errorf("mark round completed: %w", err)
		}
		result.RoundCompleted = true
		if err := s.notifier.RoundCompleted(ctx, round.SessionID, round.ID, round.Number); err != nil {
			s.logger.WarnContext(ctx, "round completion notification failed", "round_id", round.ID, "error", err)
		}
	}

	if round.Number != roundsPerSession {
		return nil
	}

	sess, exists, err := s.sessionRepo.GetSessionByID(ctx, round.SessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if !exists || sess.Closed {
		return nil
	}

	if err := s.sessionRepo.CloseSession(ctx, sess.ID); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	result.SessionClosed = true
	if err := s.notifier.SessionClosed(ctx, sess.ID, sess.MonthYear); err != nil {
		s.logger.WarnContext(ctx, "session close notification failed", "session_id", sess.ID, "error", err)
	}

	return nil
}

func checkRestrictions(item achievement.Achievement, participantID string) error {
	if len(item.RestrictionIDs) == 0 {
		return nil
	}
	for _, allowed := range item.RestrictionIDs {
		if allowed == participantID {
			return nil
		}
	}
	return fmt.Errorf("%w: achievement %s is restricted", ErrInvalidInput, item.ID)
}
