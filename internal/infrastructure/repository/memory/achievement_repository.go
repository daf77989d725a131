package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
)

type AchievementRepository struct {
	mu       sync.RWMutex
	items    map[string]achievement.Achievement
	order    []string
	grants   map[string]achievement.Grant
	grantIDs []string
	now      func() time.Time
}

func NewAchievementRepository(seed []achievement.Achievement) *AchievementRepository {
	r := &AchievementRepository{
		items:  make(map[string]achievement.Achievement, len(seed)),
		grants: make(map[string]achievement.Grant),
		now:    time.Now,
	}
	for _, item := range seed {
		r.items[item.ID] = item
		r.order = append(r.order, item.ID)
	}
	return r
}

func (r *AchievementRepository) List(_ context.Context) ([]achievement.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievement.Achievement, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *AchievementRepository) GetByID(_ context.Context, achievementID string) (achievement.Achievement, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[achievementID]
	return item, ok, nil
}

func (r *AchievementRepository) GetBySlug(_ context.Context, slug string) (achievement.Achievement, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if slug == "" {
		return achievement.Achievement{}, false, nil
	}
	for _, id := range r.order {
		item := r.items[id]
		if item.Slug == slug && item.DeletedAt == nil {
			return item, true, nil
		}
	}
	return achievement.Achievement{}, false, nil
}

func (r *AchievementRepository) Create(_ context.Context, item achievement.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *AchievementRepository) SoftDelete(_ context.Context, achievementID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[achievementID]
	if !ok || item.DeletedAt != nil {
		return nil
	}
	deletedAt := r.now().UTC()
	item.DeletedAt = &deletedAt
	r.items[achievementID] = item
	return nil
}

func (r *AchievementRepository) CreateGrant(_ context.Context, item achievement.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.grants[item.ID]; !exists {
		r.grantIDs = append(r.grantIDs, item.ID)
	}
	r.grants[item.ID] = item
	return nil
}

func (r *AchievementRepository) SoftDeleteGrant(_ context.Context, grantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.grants[grantID]
	if !ok || item.DeletedAt != nil {
		return nil
	}
	deletedAt := r.now().UTC()
	item.DeletedAt = &deletedAt
	r.grants[grantID] = item
	return nil
}

func (r *AchievementRepository) ListGrantsByRound(_ context.Context, roundID string) ([]achievement.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievement.Grant, 0)
	for _, id := range r.grantIDs {
		if r.grants[id].RoundID == roundID {
			out = append(out, r.grants[id])
		}
	}
	return out, nil
}

func (r *AchievementRepository) ListGrantsBySession(_ context.Context, sessionID string) ([]achievement.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievement.Grant, 0)
	for _, id := range r.grantIDs {
		if r.grants[id].SessionID == sessionID {
			out = append(out, r.grants[id])
		}
	}
	return out, nil
}

func (r *AchievementRepository) ListGrants(_ context.Context) ([]achievement.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]achievement.Grant, 0, len(r.grantIDs))
	for _, id := range r.grantIDs {
		out = append(out, r.grants[id])
	}
	return out, nil
}

func (r *AchievementRepository) TotalPointsByParticipant(_ context.Context, participantIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		wanted[id] = struct{}{}
	}

	out := make(map[string]int)
	for _, id := range r.grantIDs {
		grant := r.grants[id]
		if grant.DeletedAt != nil {
			continue
		}
		if _, ok := wanted[grant.ParticipantID]; !ok {
			continue
		}
		out[grant.ParticipantID] += grant.EarnedPoints
	}
	return out, nil
}
