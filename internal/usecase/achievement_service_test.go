package usecase

import (
	"errors"
	"testing"

	"github.com/tapcycle/commander-league/internal/infrastructure/repository/memory"
)

func intPtr(v int) *int { return &v }

func TestAchievementService_CreateWithParentInheritsPoints(t *testing.T) {
	repo := memory.NewAchievementRepository(nil)
	service := NewAchievementService(repo, &seqIDGenerator{prefix: "ach"})

	parent, err := service.Create(t.Context(), CreateAchievementInput{Name: "Table Presence", PointValue: intPtr(2)})
	if err != nil {
		t.Fatalf("create parent failed: %v", err)
	}

	child, err := service.Create(t.Context(), CreateAchievementInput{Name: "Best Dressed", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}
	if child.EffectivePoints() != 2 {
		t.Fatalf("expected child to inherit 2 points, got %d", child.EffectivePoints())
	}

	// Own value beats the parent's.
	loud, err := service.Create(t.Context(), CreateAchievementInput{Name: "Loudest Combo", ParentID: parent.ID, PointValue: intPtr(5)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if loud.EffectivePoints() != 5 {
		t.Fatalf("expected own points 5, got %d", loud.EffectivePoints())
	}
}

func TestAchievementService_CreateRejectsDeepNesting(t *testing.T) {
	repo := memory.NewAchievementRepository(nil)
	service := NewAchievementService(repo, &seqIDGenerator{prefix: "ach"})

	parent, err := service.Create(t.Context(), CreateAchievementInput{Name: "Root", PointValue: intPtr(1)})
	if err != nil {
		t.Fatalf("create parent failed: %v", err)
	}
	child, err := service.Create(t.Context(), CreateAchievementInput{Name: "Child", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}

	if _, err := service.Create(t.Context(), CreateAchievementInput{Name: "Grandchild", ParentID: child.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for third level, got %v", err)
	}
}

func TestAchievementService_CreateRejectsDuplicateSlug(t *testing.T) {
	repo := memory.NewAchievementRepository(memory.SeedAchievements())
	service := NewAchievementService(repo, &seqIDGenerator{prefix: "ach"})

	if _, err := service.Create(t.Context(), CreateAchievementInput{Name: "Another Participation", Slug: "participation"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAchievementService_RemoveRejectsWellKnown(t *testing.T) {
	repo := memory.NewAchievementRepository(memory.SeedAchievements())
	service := NewAchievementService(repo, &seqIDGenerator{prefix: "ach"})

	if err := service.Remove(t.Context(), "ach-participation"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	created, err := service.Create(t.Context(), CreateAchievementInput{Name: "One Off", PointValue: intPtr(1)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := service.Remove(t.Context(), created.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
}
