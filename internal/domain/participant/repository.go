package participant

import "context"

type Repository interface {
	List(ctx context.Context) ([]Participant, error)
	GetByID(ctx context.Context, participantID string) (Participant, bool, error)
	GetByCode(ctx context.Context, code string) (Participant, bool, error)
	GetByExternalRef(ctx context.Context, externalRef string) (Participant, bool, error)
	Create(ctx context.Context, item Participant) error
	Rename(ctx context.Context, participantID, name string) error
	LinkExternalRef(ctx context.Context, participantID, externalRef string) error
	SoftDelete(ctx context.Context, participantID string) error
}
