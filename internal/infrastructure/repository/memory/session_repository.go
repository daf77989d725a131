package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/session"
)

type SessionRepository struct {
	mu          sync.RWMutex
	sessions    map[string]session.Session
	sessionIDs  []string
	rounds      map[string]session.Round
	roundIDs    []string
	pods        map[string]session.Pod
	podIDs      []string
	memberships map[string][]string
	now         func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions:    make(map[string]session.Session),
		rounds:      make(map[string]session.Round),
		pods:        make(map[string]session.Pod),
		memberships: make(map[string][]string),
		now:         time.Now,
	}
}

func (r *SessionRepository) CreateSession(_ context.Context, item session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[item.ID]; !exists {
		r.sessionIDs = append(r.sessionIDs, item.ID)
	}
	r.sessions[item.ID] = item
	return nil
}

func (r *SessionRepository) GetSessionByID(_ context.Context, sessionID string) (session.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.sessions[sessionID]
	return item, ok, nil
}

func (r *SessionRepository) GetOpenSession(_ context.Context) (session.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.sessionIDs {
		item := r.sessions[id]
		if !item.Closed && item.DeletedAt == nil {
			return item, true, nil
		}
	}
	return session.Session{}, false, nil
}

func (r *SessionRepository) ListSessions(_ context.Context) ([]session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.Session, 0, len(r.sessionIDs))
	for _, id := range r.sessionIDs {
		out = append(out, r.sessions[id])
	}
	return out, nil
}

func (r *SessionRepository) CloseSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	item.Closed = true
	r.sessions[sessionID] = item
	return nil
}

func (r *SessionRepository) CreateRound(_ context.Context, item session.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rounds[item.ID]; !exists {
		r.roundIDs = append(r.roundIDs, item.ID)
	}
	r.rounds[item.ID] = item
	return nil
}

func (r *SessionRepository) GetRoundByID(_ context.Context, roundID string) (session.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rounds[roundID]
	return item, ok, nil
}

func (r *SessionRepository) ListRoundsBySession(_ context.Context, sessionID string) ([]session.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.Round, 0, 2)
	for _, id := range r.roundIDs {
		if r.rounds[id].SessionID == sessionID {
			out = append(out, r.rounds[id])
		}
	}
	return out, nil
}

func (r *SessionRepository) MarkRoundCompleted(_ context.Context, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.rounds[roundID]
	if !ok {
		return nil
	}
	item.Completed = true
	r.rounds[roundID] = item
	return nil
}

func (r *SessionRepository) CreatePod(_ context.Context, item session.Pod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pods[item.ID]; !exists {
		r.podIDs = append(r.podIDs, item.ID)
	}
	r.pods[item.ID] = item
	return nil
}

func (r *SessionRepository) GetPodByID(_ context.Context, podID string) (session.Pod, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.pods[podID]
	return item, ok, nil
}

func (r *SessionRepository) ListPodsByRound(_ context.Context, roundID string) ([]session.Pod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.Pod, 0, 4)
	for _, id := range r.podIDs {
		item := r.pods[id]
		if item.RoundID == roundID && item.DeletedAt == nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *SessionRepository) MarkPodSubmitted(_ context.Context, podID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.pods[podID]
	if !ok {
		return nil
	}
	item.Submitted = true
	r.pods[podID] = item
	return nil
}

func (r *SessionRepository) SoftDeletePod(_ context.Context, podID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.pods[podID]
	if !ok || item.DeletedAt != nil {
		return nil
	}
	deletedAt := r.now().UTC()
	item.DeletedAt = &deletedAt
	r.pods[podID] = item
	delete(r.memberships, podID)
	return nil
}

func (r *SessionRepository) ReplaceRoundMemberships(_ context.Context, roundID string, memberships []session.PodMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.podIDs {
		item := r.pods[id]
		if item.RoundID == roundID {
			delete(r.memberships, id)
		}
	}
	for _, m := range memberships {
		r.memberships[m.PodID] = append([]string(nil), m.ParticipantIDs...)
	}
	return nil
}

func (r *SessionRepository) ListMembershipsByRound(_ context.Context, roundID string) ([]session.PodMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.PodMembership, 0, 4)
	for _, id := range r.podIDs {
		item := r.pods[id]
		if item.RoundID != roundID || item.DeletedAt != nil {
			continue
		}
		out = append(out, session.PodMembership{
			PodID:          id,
			ParticipantIDs: append([]string(nil), r.memberships[id]...),
		})
	}
	return out, nil
}

func (r *SessionRepository) ListParticipantsByPod(_ context.Context, podID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.memberships[podID]...), nil
}
