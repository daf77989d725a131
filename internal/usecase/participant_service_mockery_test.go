package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/tapcycle/commander-league/internal/domain/participant"
	participantmock "github.com/tapcycle/commander-league/internal/mocks/domain/participant"
)

func TestParticipantService_Create_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := participantmock.NewRepository(t)

	service := NewParticipantService(repo, &seqIDGenerator{prefix: "part"}, &queuedCodeGenerator{codes: []string{"AAAAAA"}})

	repo.
		On("GetByCode", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "AAAAAA").
		Return(participant.Participant{}, false, nil).
		Once()
	repo.
		On("Create", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), mock.MatchedBy(func(item participant.Participant) bool {
			return item.Name == "Alex" && item.Code == "AAAAAA" && item.ID != ""
		})).
		Return(nil).
		Once()

	got, err := service.Create(ctx, "Alex")
	if err != nil {
		t.Fatalf("create participant: %v", err)
	}
	if got.Code != "AAAAAA" {
		t.Fatalf("unexpected code: got=%s want=AAAAAA", got.Code)
	}
}

func TestParticipantService_Rename_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := participantmock.NewRepository(t)

	service := NewParticipantService(repo, &seqIDGenerator{prefix: "part"}, &queuedCodeGenerator{codes: []string{"AAAAAA"}})

	repo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "missing-participant").
		Return(participant.Participant{}, false, nil).
		Once()

	err := service.Rename(ctx, "missing-participant", "New Name")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
