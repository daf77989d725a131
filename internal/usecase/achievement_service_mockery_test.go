package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	achievementmock "github.com/tapcycle/commander-league/internal/mocks/domain/achievement"
)

func TestAchievementService_Create_InheritsParentPointsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := achievementmock.NewRepository(t)

	service := NewAchievementService(repo, &seqIDGenerator{prefix: "ach"})
	parentPoints := 3

	repo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "parent-ach").
		Return(achievement.Achievement{ID: "parent-ach", Name: "Combat Tricks", PointValue: &parentPoints}, true, nil).
		Once()
	repo.
		On("Create", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), mock.MatchedBy(func(item achievement.Achievement) bool {
			return item.Name == "Double Block" &&
				item.ParentID != nil && *item.ParentID == "parent-ach" &&
				item.ParentPointValue != nil && *item.ParentPointValue == parentPoints
		})).
		Return(nil).
		Once()

	got, err := service.Create(ctx, CreateAchievementInput{Name: "Double Block", ParentID: "parent-ach"})
	if err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	if got.EffectivePoints() != parentPoints {
		t.Fatalf("unexpected effective points: got=%d want=%d", got.EffectivePoints(), parentPoints)
	}
}

func TestAchievementService_Remove_RejectsWellKnownUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := achievementmock.NewRepository(t)

	service := NewAchievementService(repo, &seqIDGenerator{prefix: "ach"})

	repo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "ach-win").
		Return(achievement.Achievement{ID: "ach-win", Name: "Win", Slug: "win"}, true, nil).
		Once()

	err := service.Remove(ctx, "ach-win")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
