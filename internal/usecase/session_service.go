package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/platform/id"
)

// roundsPerSession is fixed: every session plays exactly two rounds.
const roundsPerSession = 2

type SessionService struct {
	sessionRepo session.Repository
	ids         id.Generator
	now         func() time.Time
}

// SessionDetail bundles a session with its rounds for read endpoints.
type SessionDetail struct {
	Session session.Session
	Rounds  []session.Round
}

func NewSessionService(sessionRepo session.Repository, ids id.Generator) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		ids:         ids,
		now:         time.Now,
	}
}

// Open starts a league session on the given date and pre-creates both
// rounds. At most one session may be open at a time.
func (s *SessionService) Open(ctx context.Context, date time.Time) (SessionDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Open")
	defer span.End()

	if date.IsZero() {
		date = s.now()
	}
	date = date.UTC()

	open, exists, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return SessionDetail{}, fmt.Errorf("get open session: %w", err)
	}
	if exists {
		return SessionDetail{}, fmt.Errorf("%w: session %s is still open", ErrInvalidInput, open.ID)
	}

	sessionID, err := s.ids.NewID()
	if err != nil {
		return SessionDetail{}, fmt.Errorf("generate session id: %w", err)
	}

	item := session.Session{
		ID:        sessionID,
		MonthYear: session.MonthYearOf(date),
		Date:      date,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessionRepo.CreateSession(ctx, item); err != nil {
		return SessionDetail{}, fmt.Errorf("create session: %w", err)
	}

	rounds := make([]session.Round, 0, roundsPerSession)
	for number := 1; number <= roundsPerSession; number++ {
		roundID, err := s.ids.NewID()
		if err != nil {
			return SessionDetail{}, fmt.Errorf("generate round id: %w", err)
		}

		round := session.Round{
			ID:        roundID,
			SessionID: sessionID,
			Number:    number,
			StartedAt: date,
		}
		if err := s.sessionRepo.CreateRound(ctx, round); err != nil {
			return SessionDetail{}, fmt.Errorf("create round %d: %w", number, err)
		}
		rounds = append(rounds, round)
	}

	return SessionDetail{Session: item, Rounds: rounds}, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (SessionDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Get")
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return SessionDetail{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	item, exists, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return SessionDetail{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}

	rounds, err := s.sessionRepo.ListRoundsBySession(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, fmt.Errorf("list rounds by session: %w", err)
	}

	return SessionDetail{Session: item, Rounds: rounds}, nil
}

func (s *SessionService) GetOpen(ctx context.Context) (SessionDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.GetOpen")
	defer span.End()

	item, exists, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return SessionDetail{}, fmt.Errorf("get open session: %w", err)
	}
	if !exists {
		return SessionDetail{}, fmt.Errorf("%w: no open session", ErrNotFound)
	}

	rounds, err := s.sessionRepo.ListRoundsBySession(ctx, item.ID)
	if err != nil {
		return SessionDetail{}, fmt.Errorf("list rounds by session: %w", err)
	}

	return SessionDetail{Session: item, Rounds: rounds}, nil
}

func (s *SessionService) List(ctx context.Context) ([]session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.List")
	defer span.End()

	items, err := s.sessionRepo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return items, nil
}

// ForceClose closes a session without waiting for round 2. Admin escape
// hatch for abandoned sessions; normal closure rides pod submission.
func (s *SessionService) ForceClose(ctx context.Context, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.ForceClose")
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	item, exists, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	if item.Closed {
		return fmt.Errorf("%w: session %s is already closed", ErrInvalidInput, sessionID)
	}

	if err := s.sessionRepo.CloseSession(ctx, sessionID); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	return nil
}
