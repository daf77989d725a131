package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/domain/color"
	"github.com/tapcycle/commander-league/internal/domain/participant"
	"github.com/tapcycle/commander-league/internal/domain/scoresheet"
	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/platform/logging"
)

const defaultMetricsWorkers = 8

// topCommanderLimit caps the most-common-commanders list; ties at the
// cut are kept.
const topCommanderLimit = 5

type StandingsService struct {
	participantRepo participant.Repository
	sessionRepo     session.Repository
	achievementRepo achievement.Repository
	colorRepo       color.Repository
	sheetRepo       scoresheet.Repository
	logger          *logging.Logger
	maxWorkers      int
}

// StandingRow is one participant's points total within some scope.
type StandingRow struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
}

type MonthlyStanding struct {
	MonthYear string        `json:"month_year"`
	Rows      []StandingRow `json:"rows"`
}

// MonthWinners lists everyone tied at the top of a month. The league
// never breaks first-place ties; all tied participants win.
type MonthWinners struct {
	MonthYear string        `json:"month_year"`
	Points    int           `json:"points"`
	Winners   []StandingRow `json:"winners"`
}

type ParticipantMetrics struct {
	ParticipantID        string    `json:"participant_id"`
	Name                 string    `json:"name"`
	Wins                 int       `json:"wins"`
	AvgPointsPerWin      float64   `json:"avg_points_per_win"`
	LifetimePoints       int       `json:"lifetime_points"`
	RoundsAttended       int       `json:"rounds_attended"`
	DistinctAchievements int       `json:"distinct_achievements"`
	FirstSeen            time.Time `json:"first_seen"`
}

type ColorWinShare struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
}

type CommanderCount struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

type AchievementCount struct {
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	Grants        int    `json:"grants"`
}

type LeagueMetrics struct {
	ColorWins     []ColorWinShare    `json:"color_wins"`
	Draws         int                `json:"draws"`
	BigWinners    []StandingRow      `json:"big_winners"`
	TopCommanders []CommanderCount   `json:"top_commanders"`
	MostEarned    []AchievementCount `json:"most_earned"`
}

func NewStandingsService(
	participantRepo participant.Repository,
	sessionRepo session.Repository,
	achievementRepo achievement.Repository,
	colorRepo color.Repository,
	sheetRepo scoresheet.Repository,
	logger *logging.Logger,
) *StandingsService {
	return &StandingsService{
		participantRepo: participantRepo,
		sessionRepo:     sessionRepo,
		achievementRepo: achievementRepo,
		colorRepo:       colorRepo,
		sheetRepo:       sheetRepo,
		logger:          logger,
		maxWorkers:      defaultMetricsWorkers,
	}
}

// Monthly returns the points table of one month. Soft-deleted
// participants are hidden from the table; their historical points still
// count toward lifetime and league metrics.
func (s *StandingsService) Monthly(ctx context.Context, monthYear string) (MonthlyStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Monthly")
	defer span.End()

	monthYear = strings.TrimSpace(monthYear)
	if monthYear == "" {
		return MonthlyStanding{}, fmt.Errorf("%w: month is required", ErrInvalidInput)
	}

	names, err := s.visibleParticipants(ctx)
	if err != nil {
		return MonthlyStanding{}, err
	}

	points, err := s.monthPoints(ctx, monthYear)
	if err != nil {
		return MonthlyStanding{}, err
	}

	return MonthlyStanding{MonthYear: monthYear, Rows: standingRows(points, names)}, nil
}

// AllMonths returns every month's points table, newest month first.
func (s *StandingsService) AllMonths(ctx context.Context) ([]MonthlyStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.AllMonths")
	defer span.End()

	sessions, err := s.sessionRepo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	names, err := s.visibleParticipants(ctx)
	if err != nil {
		return nil, err
	}

	months := monthsOf(sessions, time.Time{})
	out := make([]MonthlyStanding, 0, len(months))
	for _, monthYear := range months {
		points, err := s.monthPoints(ctx, monthYear)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthlyStanding{MonthYear: monthYear, Rows: standingRows(points, names)})
	}

	return out, nil
}

// Winners returns each finished month's tied first-place list. Months
// containing sessions on or after the cutoff are still in play and are
// excluded.
func (s *StandingsService) Winners(ctx context.Context, before time.Time) ([]MonthWinners, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Winners")
	defer span.End()

	if before.IsZero() {
		before = time.Now().UTC()
	}

	sessions, err := s.sessionRepo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	names, err := s.visibleParticipants(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MonthWinners, 0)
	for _, monthYear := range monthsOf(sessions, before) {
		points, err := s.monthPoints(ctx, monthYear)
		if err != nil {
			return nil, err
		}

		rows := standingRows(points, names)
		if len(rows) == 0 {
			continue
		}

		top := rows[0].Points
		winners := make([]StandingRow, 0, 1)
		for _, row := range rows {
			if row.Points != top {
				break
			}
			winners = append(winners, row)
		}
		out = append(out, MonthWinners{MonthYear: monthYear, Points: top, Winners: winners})
	}

	return out, nil
}

// Participant computes one participant's lifetime metrics.
func (s *StandingsService) Participant(ctx context.Context, participantID string) (ParticipantMetrics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Participant")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return ParticipantMetrics{}, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}

	item, exists, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return ParticipantMetrics{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return ParticipantMetrics{}, fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	return s.participantMetrics(ctx, item)
}

// AllParticipants computes lifetime metrics for every visible
// participant, fanning the per-participant work out over a worker pool.
func (s *StandingsService) AllParticipants(ctx context.Context) ([]ParticipantMetrics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.AllParticipants")
	defer span.End()

	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	workers := s.maxWorkers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create metrics worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		out      = make([]ParticipantMetrics, 0, len(participants))
	)
	for _, item := range participants {
		if item.DeletedAt != nil {
			continue
		}
		item := item

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			metrics, metricsErr := s.participantMetrics(ctx, item)
			mu.Lock()
			defer mu.Unlock()
			if metricsErr != nil {
				if firstErr == nil {
					firstErr = metricsErr
				}
				return
			}
			out = append(out, metrics)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit metrics task: %w", submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LifetimePoints != out[j].LifetimePoints {
			return out[i].LifetimePoints > out[j].LifetimePoints
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// League computes league-wide metrics from the winning-commander records
// and the grant ledger.
func (s *StandingsService) League(ctx context.Context) (LeagueMetrics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.League")
	defer span.End()

	commanders, err := s.sheetRepo.ListWinningCommanders(ctx)
	if err != nil {
		return LeagueMetrics{}, fmt.Errorf("list winning commanders: %w", err)
	}

	names, err := s.visibleParticipants(ctx)
	if err != nil {
		return LeagueMetrics{}, err
	}

	out := LeagueMetrics{}
	winsByColor := make(map[string]int)
	winsByParticipant := make(map[string]int)
	winsByCommander := make(map[string]int)
	for _, item := range commanders {
		if item.ColorID == nil || item.ParticipantID == nil {
			out.Draws++
			continue
		}
		winsByColor[*item.ColorID]++
		winsByParticipant[*item.ParticipantID]++
		winsByCommander[item.Name]++
	}

	for colorID, wins := range winsByColor {
		identity, exists, err := s.colorRepo.GetByID(ctx, colorID)
		if err != nil {
			return LeagueMetrics{}, fmt.Errorf("get color: %w", err)
		}
		if !exists {
			return LeagueMetrics{}, fmt.Errorf("%w: color=%s", ErrCatalogIncomplete, colorID)
		}
		out.ColorWins = append(out.ColorWins, ColorWinShare{Symbol: identity.Symbol, Name: identity.Name, Wins: wins})
	}
	sort.Slice(out.ColorWins, func(i, j int) bool {
		if out.ColorWins[i].Wins != out.ColorWins[j].Wins {
			return out.ColorWins[i].Wins > out.ColorWins[j].Wins
		}
		return out.ColorWins[i].Symbol < out.ColorWins[j].Symbol
	})

	out.BigWinners = tiedMax(winsByParticipant, names)
	out.TopCommanders = topCommanders(winsByCommander)

	mostEarned, err := s.mostEarnedFreeForm(ctx)
	if err != nil {
		return LeagueMetrics{}, err
	}
	out.MostEarned = mostEarned

	return out, nil
}

func (s *StandingsService) participantMetrics(ctx context.Context, item participant.Participant) (ParticipantMetrics, error) {
	grants, err := s.achievementRepo.ListGrants(ctx)
	if err != nil {
		return ParticipantMetrics{}, fmt.Errorf("list grants: %w", err)
	}

	participation, err := requireAchievementBySlug(ctx, s.achievementRepo, achievement.SlugParticipation)
	if err != nil {
		return ParticipantMetrics{}, err
	}

	metrics := ParticipantMetrics{
		ParticipantID: item.ID,
		Name:          item.Name,
		FirstSeen:     item.CreatedAt,
	}

	pointsByRound := make(map[string]int)
	distinct := make(map[string]struct{})
	for _, grant := range grants {
		if grant.ParticipantID != item.ID || grant.DeletedAt != nil {
			continue
		}
		metrics.LifetimePoints += grant.EarnedPoints
		pointsByRound[grant.RoundID] += grant.EarnedPoints
		distinct[grant.AchievementID] = struct{}{}
		if grant.AchievementID == participation.ID {
			metrics.RoundsAttended++
		}
	}
	metrics.DistinctAchievements = len(distinct)

	commanders, err := s.sheetRepo.ListWinningCommanders(ctx)
	if err != nil {
		return ParticipantMetrics{}, fmt.Errorf("list winning commanders: %w", err)
	}

	winPoints := 0
	for _, commander := range commanders {
		if commander.ParticipantID == nil || *commander.ParticipantID != item.ID {
			continue
		}
		metrics.Wins++

		pod, exists, err := s.sessionRepo.GetPodByID(ctx, commander.PodID)
		if err != nil {
			return ParticipantMetrics{}, fmt.Errorf("get pod: %w", err)
		}
		if exists {
			winPoints += pointsByRound[pod.RoundID]
		}
	}
	if metrics.Wins > 0 {
		metrics.AvgPointsPerWin = float64(winPoints) / float64(metrics.Wins)
	}

	return metrics, nil
}

func (s *StandingsService) monthPoints(ctx context.Context, monthYear string) (map[string]int, error) {
	sessions, err := s.sessionRepo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	points := make(map[string]int)
	for _, sess := range sessions {
		if sess.MonthYear != monthYear || sess.DeletedAt != nil {
			continue
		}
		grants, err := s.achievementRepo.ListGrantsBySession(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("list grants by session: %w", err)
		}
		for _, grant := range grants {
			if grant.DeletedAt != nil {
				continue
			}
			points[grant.ParticipantID] += grant.EarnedPoints
		}
	}

	return points, nil
}

func (s *StandingsService) visibleParticipants(ctx context.Context) (map[string]string, error) {
	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	names := make(map[string]string, len(participants))
	for _, item := range participants {
		if item.DeletedAt != nil {
			continue
		}
		names[item.ID] = item.Name
	}

	return names, nil
}

func (s *StandingsService) mostEarnedFreeForm(ctx context.Context) ([]AchievementCount, error) {
	catalog, err := s.achievementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	freeForm := make(map[string]achievement.Achievement)
	for _, item := range catalog {
		if item.Slug == "" {
			freeForm[item.ID] = item
		}
	}

	grants, err := s.achievementRepo.ListGrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	counts := make(map[string]int)
	for _, grant := range grants {
		if grant.DeletedAt != nil {
			continue
		}
		if _, ok := freeForm[grant.AchievementID]; ok {
			counts[grant.AchievementID]++
		}
	}

	max := 0
	for _, count := range counts {
		if count > max {
			max = count
		}
	}
	if max == 0 {
		return nil, nil
	}

	out := make([]AchievementCount, 0, 1)
	for achievementID, count := range counts {
		if count != max {
			continue
		}
		out = append(out, AchievementCount{
			AchievementID: achievementID,
			Name:          freeForm[achievementID].Name,
			Grants:        count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// monthsOf collects distinct month buckets of the non-deleted sessions,
// most recent first. A non-zero cutoff keeps only months whose sessions
// all predate it.
func monthsOf(sessions []session.Session, before time.Time) []string {
	type monthState struct {
		latest time.Time
		order  int
	}
	states := make(map[string]*monthState)
	order := 0
	for _, sess := range sessions {
		if sess.DeletedAt != nil {
			continue
		}
		state, ok := states[sess.MonthYear]
		if !ok {
			state = &monthState{order: order}
			order++
			states[sess.MonthYear] = state
		}
		if sess.Date.After(state.latest) {
			state.latest = sess.Date
		}
	}

	months := make([]string, 0, len(states))
	for monthYear, state := range states {
		if !before.IsZero() && !state.latest.Before(before) {
			continue
		}
		months = append(months, monthYear)
	}
	sort.Slice(months, func(i, j int) bool {
		return states[months[i]].latest.After(states[months[j]].latest)
	})

	return months
}

func standingRows(points map[string]int, names map[string]string) []StandingRow {
	out := make([]StandingRow, 0, len(points))
	for participantID, total := range points {
		name, visible := names[participantID]
		if !visible {
			continue
		}
		out = append(out, StandingRow{ParticipantID: participantID, Name: name, Points: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Name < out[j].Name
	})

	return out
}

func tiedMax(wins map[string]int, names map[string]string) []StandingRow {
	max := 0
	for _, count := range wins {
		if count > max {
			max = count
		}
	}
	if max == 0 {
		return nil
	}

	out := make([]StandingRow, 0, 1)
	for participantID, count := range wins {
		if count != max {
			continue
		}
		name, visible := names[participantID]
		if !visible {
			name = participantID
		}
		out = append(out, StandingRow{ParticipantID: participantID, Name: name, Points: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func topCommanders(wins map[string]int) []CommanderCount {
	out := make([]CommanderCount, 0, len(wins))
	for name, count := range wins {
		out = append(out, CommanderCount{Name: name, Wins: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})

	if len(out) <= topCommanderLimit {
		return out
	}
	cut := topCommanderLimit
	for cut < len(out) && out[cut].Wins == out[topCommanderLimit-1].Wins {
		cut++
	}

	return out[:cut]
}
