package achievement

import "context"

type Repository interface {
	List(ctx context.Context) ([]Achievement, error)
	GetByID(ctx context.Context, achievementID string) (Achievement, bool, error)
	GetBySlug(ctx context.Context, slug string) (Achievement, bool, error)
	Create(ctx context.Context, item Achievement) error
	SoftDelete(ctx context.Context, achievementID string) error

	CreateGrant(ctx context.Context, item Grant) error
	SoftDeleteGrant(ctx context.Context, grantID string) error
	ListGrantsByRound(ctx context.Context, roundID string) ([]Grant, error)
	ListGrantsBySession(ctx context.Context, sessionID string) ([]Grant, error)
	ListGrants(ctx context.Context) ([]Grant, error)
	// TotalPointsByParticipant sums non-deleted grant points per
	// participant; participants without grants are absent from the map.
	TotalPointsByParticipant(ctx context.Context, participantIDs []string) (map[string]int, error)
}
