package achievement

import (
	"fmt"
	"time"
)

// Well-known slugs referenced by business logic. Achievements without a
// slug are free-form catalog entries addressed by id only.
const (
	SlugParticipation     = "participation"
	SlugEndDraw           = "end-draw"
	SlugBroughtSnack      = "brought-snack"
	SlugLentDeck          = "lent-deck"
	SlugSubmittedDecklist = "submitted-decklist"
	SlugKnockedOut        = "knocked-out"
	SlugPrizePool         = "prize-pool"
	SlugLastInTurnOrder   = "last-in-turn-order"
	SlugCommanderDamage   = "commander-damage"
)

// WinColorsSlug returns the slug of the win-N-colors achievement.
func WinColorsSlug(colorCount int) string {
	return fmt.Sprintf("win-%d-colors", colorCount)
}

// Achievement is a catalog entry. The taxonomy is two levels deep: an
// entry may reference a parent whose point value it inherits when its
// own PointValue is nil.
type Achievement struct {
	ID               string
	Name             string
	Slug             string
	PointValue       *int
	ParentID         *string
	ParentPointValue *int
	RestrictionIDs   []string
	CreatedAt        time.Time
	DeletedAt        *time.Time
}

// EffectivePoints resolves the entry's point value, falling back to the
// parent's when the entry has none of its own.
func (a Achievement) EffectivePoints() int {
	if a.PointValue != nil {
		return *a.PointValue
	}
	if a.ParentPointValue != nil {
		return *a.ParentPointValue
	}
	return 0
}

// Grant records that a participant earned an achievement in a round.
// EarnedPoints is snapshotted at grant time and never recomputed;
// corrections soft-delete the grant and insert a new one.
type Grant struct {
	ID            string
	ParticipantID string
	AchievementID string
	RoundID       string
	SessionID     string
	EarnedPoints  int
	CreatedAt     time.Time
	DeletedAt     *time.Time
}
