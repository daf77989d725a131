package memory

import (
	"context"
	"sync"

	"github.com/tapcycle/commander-league/internal/domain/scoresheet"
)

// ScoresheetRepository applies scoresheet mutations against a shared
// in-memory grant store. It reuses the AchievementRepository so grants
// written here are visible through the grant listing methods, the same
// shape the postgres implementation has with its shared tables.
type ScoresheetRepository struct {
	mu         sync.RWMutex
	grants     *AchievementRepository
	commanders map[string]scoresheet.WinningCommander
	podOrder   []string
}

func NewScoresheetRepository(grants *AchievementRepository) *ScoresheetRepository {
	return &ScoresheetRepository{
		grants:     grants,
		commanders: make(map[string]scoresheet.WinningCommander),
	}
}

func (r *ScoresheetRepository) Apply(ctx context.Context, m scoresheet.Mutations) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, grantID := range m.SoftDeleteGrantIDs {
		if err := r.grants.SoftDeleteGrant(ctx, grantID); err != nil {
			return err
		}
	}
	for _, grant := range m.Creates {
		if err := r.grants.CreateGrant(ctx, grant); err != nil {
			return err
		}
	}

	if _, exists := r.commanders[m.PodID]; !exists {
		r.podOrder = append(r.podOrder, m.PodID)
	}
	r.commanders[m.PodID] = m.Commander
	return nil
}

func (r *ScoresheetRepository) GetWinningCommanderByPod(_ context.Context, podID string) (scoresheet.WinningCommander, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.commanders[podID]
	return item, ok, nil
}

func (r *ScoresheetRepository) ListWinningCommanders(_ context.Context) ([]scoresheet.WinningCommander, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoresheet.WinningCommander, 0, len(r.podOrder))
	for _, podID := range r.podOrder {
		out = append(out, r.commanders[podID])
	}
	return out, nil
}
