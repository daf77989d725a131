package scoresheet

import (
	"errors"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
)

// DrawCommanderName is the sentinel winning-commander name recorded for
// a drawn pod. Color and participant are null alongside it.
const DrawCommanderName = "Draw"

// Outcome is the declared result of a pod. Exactly one branch is set.
type Outcome struct {
	Draw     *DrawOutcome
	Decisive *DecisiveOutcome
}

type DrawOutcome struct{}

// DecisiveOutcome names a winner, the winning deck's commander (plus
// optional partner and companion), and the category achievements earned
// around the table. The companion never contributes to color identity.
type DecisiveOutcome struct {
	WinnerID             string
	CommanderCardID      string
	PartnerCardID        string
	CompanionCardID      string
	PodCategories        PodCategories
	WinnerFlags          WinnerFlags
	WinnerAchievementIDs []string
}

// PodCategories are pod-wide boolean categories: each lists every
// participant who performed the action, independent of who won.
type PodCategories struct {
	BroughtSnack      []string
	LentDeck          []string
	SubmittedDecklist []string
	KnockedOut        []string
	PrizePool         []string
}

// WinnerFlags are boolean categories that apply only to the winner.
type WinnerFlags struct {
	LastInTurnOrder bool
	CommanderDamage bool
}

var (
	errOutcomeEmpty     = errors.New("outcome must declare a draw or a decisive result")
	errOutcomeAmbiguous = errors.New("outcome cannot be both a draw and a decisive result")
)

func (o Outcome) Validate() error {
	switch {
	case o.Draw == nil && o.Decisive == nil:
		return errOutcomeEmpty
	case o.Draw != nil && o.Decisive != nil:
		return errOutcomeAmbiguous
	}
	return nil
}

// WinningCommander is the single per-pod record of the winning deck.
// ColorID and ParticipantID are nil for a draw.
type WinningCommander struct {
	PodID         string
	Name          string
	ColorID       *string
	ParticipantID *string
}

// Mutations is the reconciler's output: the exact grant rows to
// soft-delete and insert plus the commander upsert, applied atomically.
type Mutations struct {
	PodID              string
	SoftDeleteGrantIDs []string
	Creates            []achievement.Grant
	Commander          WinningCommander
}
