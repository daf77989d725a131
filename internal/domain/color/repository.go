package color

import "context"

type Repository interface {
	List(ctx context.Context) ([]Color, error)
	GetByID(ctx context.Context, colorID string) (Color, bool, error)
	GetBySymbol(ctx context.Context, symbol string) (Color, bool, error)
	GetByMask(ctx context.Context, mask int) (Color, bool, error)
}
