package session

import "context"

type Repository interface {
	CreateSession(ctx context.Context, item Session) error
	GetSessionByID(ctx context.Context, sessionID string) (Session, bool, error)
	GetOpenSession(ctx context.Context) (Session, bool, error)
	ListSessions(ctx context.Context) ([]Session, error)
	CloseSession(ctx context.Context, sessionID string) error

	CreateRound(ctx context.Context, item Round) error
	GetRoundByID(ctx context.Context, roundID string) (Round, bool, error)
	ListRoundsBySession(ctx context.Context, sessionID string) ([]Round, error)
	MarkRoundCompleted(ctx context.Context, roundID string) error

	CreatePod(ctx context.Context, item Pod) error
	GetPodByID(ctx context.Context, podID string) (Pod, bool, error)
	ListPodsByRound(ctx context.Context, roundID string) ([]Pod, error)
	MarkPodSubmitted(ctx context.Context, podID string) error
	SoftDeletePod(ctx context.Context, podID string) error

	// ReplaceRoundMemberships atomically swaps all membership rows of the
	// round's non-deleted pods for the given assignment.
	ReplaceRoundMemberships(ctx context.Context, roundID string, memberships []PodMembership) error
	ListMembershipsByRound(ctx context.Context, roundID string) ([]PodMembership, error)
	ListParticipantsByPod(ctx context.Context, podID string) ([]string, error)
}
