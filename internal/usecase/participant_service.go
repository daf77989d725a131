package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/participant"
	"github.com/tapcycle/commander-league/internal/platform/id"
)

// maxCodeAttempts bounds the retry loop on sign-in code collisions. The
// code space is 31^6 so a handful of attempts is plenty.
const maxCodeAttempts = 5

type ParticipantService struct {
	participantRepo participant.Repository
	ids             id.Generator
	codes           id.CodeGenerator
	now             func() time.Time
}

func NewParticipantService(
	participantRepo participant.Repository,
	ids id.Generator,
	codes id.CodeGenerator,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		ids:             ids,
		codes:           codes,
		now:             time.Now,
	}
}

func (s *ParticipantService) List(ctx context.Context) ([]participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.List")
	defer span.End()

	items, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return items, nil
}

func (s *ParticipantService) Get(ctx context.Context, participantID string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Get")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}

	item, exists, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return participant.Participant{}, fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	return item, nil
}

// Create registers a league member and assigns a fresh sign-in code,
// retrying on the unlikely code collision.
func (s *ParticipantService) Create(ctx context.Context, name string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}

	participantID, err := s.ids.NewID()
	if err != nil {
		return participant.Participant{}, fmt.Errorf("generate participant id: %w", err)
	}

	code, err := s.freshCode(ctx)
	if err != nil {
		return participant.Participant{}, err
	}

	item := participant.Participant{
		ID:        participantID,
		Name:      name,
		Code:      code,
		CreatedAt: s.now().UTC(),
	}
	if err := s.participantRepo.Create(ctx, item); err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}

	return item, nil
}

func (s *ParticipantService) Rename(ctx context.Context, participantID, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Rename")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	name = strings.TrimSpace(name)
	if participantID == "" {
		return fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}
	if name == "" {
		return fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}

	_, exists, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	if err := s.participantRepo.Rename(ctx, participantID, name); err != nil {
		return fmt.Errorf("rename participant: %w", err)
	}

	return nil
}

// Remove soft-deletes the participant. Grant history stays on the books
// so past standings and lifetime metrics keep adding up.
func (s *ParticipantService) Remove(ctx context.Context, participantID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Remove")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}

	_, exists, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	if err := s.participantRepo.SoftDelete(ctx, participantID); err != nil {
		return fmt.Errorf("soft delete participant: %w", err)
	}

	return nil
}

func (s *ParticipantService) freshCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes.NewCode()
		if err != nil {
			return "", fmt.Errorf("generate sign-in code: %w", err)
		}

		_, taken, err := s.participantRepo.GetByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check sign-in code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("exhausted sign-in code attempts")
}
