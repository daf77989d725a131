package card

import "context"

// Card is the slice of card data the league needs: a display name and
// the color identity as mono-color symbols ("w","u","b","r","g").
// An empty identity means colorless.
type Card struct {
	ID           string
	Name         string
	ColorSymbols []string
}

// Catalog resolves cards from the external card-data collaborator.
type Catalog interface {
	GetByID(ctx context.Context, cardID string) (Card, bool, error)
}
