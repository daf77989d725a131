package usecase

import (
	"context"
	"fmt"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
)

// requireAchievementBySlug resolves a well-known catalog entry. A missing
// slug is seed-data damage, not a caller mistake.
func requireAchievementBySlug(ctx context.Context, repo achievement.Repository, slug string) (achievement.Achievement, error) {
	item, exists, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		return achievement.Achievement{}, fmt.Errorf("get achievement by slug %q: %w", slug, err)
	}
	if !exists {
		return achievement.Achievement{}, fmt.Errorf("%w: achievement slug %q", ErrCatalogIncomplete, slug)
	}

	return item, nil
}
