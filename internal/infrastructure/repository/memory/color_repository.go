package memory

import (
	"context"
	"sync"

	"github.com/tapcycle/commander-league/internal/domain/color"
)

type ColorRepository struct {
	mu    sync.RWMutex
	items []color.Color
}

func NewColorRepository(seed []color.Color) *ColorRepository {
	return &ColorRepository{items: append([]color.Color(nil), seed...)}
}

func (r *ColorRepository) List(_ context.Context) ([]color.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]color.Color(nil), r.items...), nil
}

func (r *ColorRepository) GetByID(_ context.Context, colorID string) (color.Color, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == colorID {
			return item, true, nil
		}
	}
	return color.Color{}, false, nil
}

func (r *ColorRepository) GetBySymbol(_ context.Context, symbol string) (color.Color, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Symbol == symbol {
			return item, true, nil
		}
	}
	return color.Color{}, false, nil
}

func (r *ColorRepository) GetByMask(_ context.Context, mask int) (color.Color, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Mask == mask {
			return item, true, nil
		}
	}
	return color.Color{}, false, nil
}
