package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrMissingCommander rejects a decisive outcome declared without a
	// commander card.
	ErrMissingCommander = errors.New("decisive outcome requires a commander")

	// ErrInsufficientParticipants rejects pod formation below the
	// minimum table size.
	ErrInsufficientParticipants = errors.New("not enough participants to form pods")

	// ErrCatalogIncomplete flags missing seed data (a color mask or a
	// well-known achievement slug with no catalog row). Operator error,
	// never retried or defaulted.
	ErrCatalogIncomplete = errors.New("catalog is missing required seed data")
)
