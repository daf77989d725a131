package usecase

import (
	"errors"
	"testing"

	"github.com/tapcycle/commander-league/internal/infrastructure/repository/memory"
)

type queuedCodeGenerator struct {
	codes []string
	n     int
}

func (g *queuedCodeGenerator) NewCode() (string, error) {
	if g.n >= len(g.codes) {
		return "", errors.New("out of codes")
	}
	code := g.codes[g.n]
	g.n++
	return code, nil
}

func TestParticipantService_Create(t *testing.T) {
	repo := memory.NewParticipantRepository(nil)
	codes := &queuedCodeGenerator{codes: []string{"AAAAAA"}}
	service := NewParticipantService(repo, &seqIDGenerator{prefix: "part"}, codes)

	item, err := service.Create(t.Context(), "  Alex  ")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if item.Name != "Alex" {
		t.Fatalf("expected trimmed name, got %q", item.Name)
	}
	if item.Code != "AAAAAA" {
		t.Fatalf("unexpected code %q", item.Code)
	}
}

func TestParticipantService_CreateRetriesCodeCollision(t *testing.T) {
	repo := memory.NewParticipantRepository(nil)
	codes := &queuedCodeGenerator{codes: []string{"AAAAAA", "AAAAAA", "BBBBBB"}}
	service := NewParticipantService(repo, &seqIDGenerator{prefix: "part"}, codes)

	first, err := service.Create(t.Context(), "Alex")
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := service.Create(t.Context(), "Blake")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if first.Code == second.Code {
		t.Fatalf("expected distinct codes, both got %q", first.Code)
	}
	if second.Code != "BBBBBB" {
		t.Fatalf("expected retry to land on BBBBBB, got %q", second.Code)
	}
}

func TestParticipantService_CreateRejectsEmptyName(t *testing.T) {
	repo := memory.NewParticipantRepository(nil)
	service := NewParticipantService(repo, &seqIDGenerator{prefix: "part"}, &queuedCodeGenerator{codes: []string{"AAAAAA"}})

	if _, err := service.Create(t.Context(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParticipantService_RemoveKeepsRecordSoftDeleted(t *testing.T) {
	repo := memory.NewParticipantRepository(nil)
	service := NewParticipantService(repo, &seqIDGenerator{prefix: "part"}, &queuedCodeGenerator{codes: []string{"AAAAAA"}})

	item, err := service.Create(t.Context(), "Alex")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := service.Remove(t.Context(), item.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	stored, exists, err := repo.GetByID(t.Context(), item.ID)
	if err != nil || !exists {
		t.Fatalf("expected soft-deleted row to remain: %v", err)
	}
	if stored.DeletedAt == nil {
		t.Fatalf("expected deleted_at set")
	}

	if err := service.Rename(t.Context(), "missing", "X"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
