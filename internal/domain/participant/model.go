package participant

import "time"

// Participant is a league member. Participants are soft-deleted only:
// their achievement history must survive removal.
type Participant struct {
	ID          string
	Name        string
	Code        string
	ExternalRef string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}
