package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/participant"
)

type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]participant.Participant
	order []string
	now   func() time.Time
}

func NewParticipantRepository(seed []participant.Participant) *ParticipantRepository {
	r := &ParticipantRepository{
		items: make(map[string]participant.Participant, len(seed)),
		now:   time.Now,
	}
	for _, item := range seed {
		r.items[item.ID] = item
		r.order = append(r.order, item.ID)
	}
	return r
}

func (r *ParticipantRepository) List(_ context.Context) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *ParticipantRepository) GetByID(_ context.Context, participantID string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[participantID]
	return item, ok, nil
}

func (r *ParticipantRepository) GetByCode(_ context.Context, code string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Code == code && item.DeletedAt == nil {
			return item, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (r *ParticipantRepository) GetByExternalRef(_ context.Context, externalRef string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ExternalRef == externalRef && item.DeletedAt == nil {
			return item, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (r *ParticipantRepository) Create(_ context.Context, item participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *ParticipantRepository) Rename(_ context.Context, participantID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[participantID]
	if !ok {
		return nil
	}
	item.Name = name
	r.items[participantID] = item
	return nil
}

func (r *ParticipantRepository) LinkExternalRef(_ context.Context, participantID, externalRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[participantID]
	if !ok {
		return nil
	}
	item.ExternalRef = externalRef
	r.items[participantID] = item
	return nil
}

func (r *ParticipantRepository) SoftDelete(_ context.Context, participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[participantID]
	if !ok || item.DeletedAt != nil {
		return nil
	}
	deletedAt := r.now().UTC()
	item.DeletedAt = &deletedAt
	r.items[participantID] = item
	return nil
}
