package memory

import (
	"context"
	"sync"

	"github.com/tapcycle/commander-league/internal/domain/card"
)

// CardCatalog serves card lookups from a fixed set. Used in tests and
// when no card-index backend is configured.
type CardCatalog struct {
	mu    sync.RWMutex
	items map[string]card.Card
}

func NewCardCatalog(seed []card.Card) *CardCatalog {
	r := &CardCatalog{items: make(map[string]card.Card, len(seed))}
	for _, item := range seed {
		r.items[item.ID] = item
	}
	return r
}

func (r *CardCatalog) GetByID(_ context.Context, cardID string) (card.Card, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[cardID]
	return item, ok, nil
}

func SeedCards() []card.Card {
	return []card.Card{
		{ID: "card-atraxa", Name: "Atraxa, Praetors' Voice", ColorSymbols: []string{"w", "u", "b", "g"}},
		{ID: "card-krenko", Name: "Krenko, Mob Boss", ColorSymbols: []string{"r"}},
		{ID: "card-tymna", Name: "Tymna the Weaver", ColorSymbols: []string{"w", "b"}},
		{ID: "card-thrasios", Name: "Thrasios, Triton Hero", ColorSymbols: []string{"u", "g"}},
		{ID: "card-kozilek", Name: "Kozilek, Butcher of Truth", ColorSymbols: nil},
		{ID: "card-lurrus", Name: "Lurrus of the Dream-Den", ColorSymbols: []string{"w", "b"}},
	}
}
