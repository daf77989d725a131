package scoresheet

import "context"

type Repository interface {
	// Apply lands every mutation of one submission in a single
	// transaction: a reader never observes a half-applied scoresheet.
	Apply(ctx context.Context, m Mutations) error
	GetWinningCommanderByPod(ctx context.Context, podID string) (WinningCommander, bool, error)
	ListWinningCommanders(ctx context.Context) ([]WinningCommander, error)
}
