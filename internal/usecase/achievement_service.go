package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/platform/id"
)

type AchievementService struct {
	achievementRepo achievement.Repository
	ids             id.Generator
	now             func() time.Time
}

type CreateAchievementInput struct {
	Name           string
	Slug           string
	PointValue     *int
	ParentID       string
	RestrictionIDs []string
}

func NewAchievementService(achievementRepo achievement.Repository, ids id.Generator) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		ids:             ids,
		now:             time.Now,
	}
}

func (s *AchievementService) List(ctx context.Context) ([]achievement.Achievement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AchievementService.List")
	defer span.End()

	items, err := s.achievementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	return items, nil
}

func (s *AchievementService) Get(ctx context.Context, achievementID string) (achievement.Achievement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AchievementService.Get")
	defer span.End()

	achievementID = strings.TrimSpace(achievementID)
	if achievementID == "" {
		return achievement.Achievement{}, fmt.Errorf("%w: achievement id is required", ErrInvalidInput)
	}

	item, exists, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return achievement.Achievement{}, fmt.Errorf("get achievement: %w", err)
	}
	if !exists {
		return achievement.Achievement{}, fmt.Errorf("%w: achievement=%s", ErrNotFound, achievementID)
	}

	return item, nil
}

// Create adds a catalog entry. The taxonomy is capped at two levels: a
// parent must itself be parentless.
func (s *AchievementService) Create(ctx context.Context, input CreateAchievementInput) (achievement.Achievement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AchievementService.Create")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return achievement.Achievement{}, fmt.Errorf("%w: achievement name is required", ErrInvalidInput)
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != "" {
		_, taken, err := s.achievementRepo.GetBySlug(ctx, slug)
		if err != nil {
			return achievement.Achievement{}, fmt.Errorf("check achievement slug: %w", err)
		}
		if taken {
			return achievement.Achievement{}, fmt.Errorf("%w: slug %q is already in use", ErrInvalidInput, slug)
		}
	}

	item := achievement.Achievement{
		Name:           name,
		Slug:           slug,
		PointValue:     input.PointValue,
		RestrictionIDs: input.RestrictionIDs,
		CreatedAt:      s.now().UTC(),
	}

	parentID := strings.TrimSpace(input.ParentID)
	if parentID != "" {
		parent, exists, err := s.achievementRepo.GetByID(ctx, parentID)
		if err != nil {
			return achievement.Achievement{}, fmt.Errorf("get parent achievement: %w", err)
		}
		if !exists {
			return achievement.Achievement{}, fmt.Errorf("%w: parent achievement=%s", ErrNotFound, parentID)
		}
		if parent.ParentID != nil {
			return achievement.Achievement{}, fmt.Errorf("%w: achievements nest at most one level deep", ErrInvalidInput)
		}
		item.ParentID = &parent.ID
		item.ParentPointValue = parent.PointValue
	}

	achievementID, err := s.ids.NewID()
	if err != nil {
		return achievement.Achievement{}, fmt.Errorf("generate achievement id: %w", err)
	}
	item.ID = achievementID

	if err := s.achievementRepo.Create(ctx, item); err != nil {
		return achievement.Achievement{}, fmt.Errorf("create achievement: %w", err)
	}

	return item, nil
}

// Remove soft-deletes a catalog entry. Existing grants keep their
// snapshotted points; only new grants are blocked.
func (s *AchievementService) Remove(ctx context.Context, achievementID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AchievementService.Remove")
	defer span.End()

	achievementID = strings.TrimSpace(achievementID)
	if achievementID == "" {
		return fmt.Errorf("%w: achievement id is required", ErrInvalidInput)
	}

	item, exists, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		return fmt.Errorf("get achievement: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: achievement=%s", ErrNotFound, achievementID)
	}
	if item.Slug != "" {
		return fmt.Errorf("%w: well-known achievement %q cannot be removed", ErrInvalidInput, item.Slug)
	}

	if err := s.achievementRepo.SoftDelete(ctx, achievementID); err != nil {
		return fmt.Errorf("soft delete achievement: %w", err)
	}

	return nil
}
