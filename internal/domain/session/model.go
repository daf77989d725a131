package session

import "time"

// MonthYearLayout formats a session's month bucket, e.g. "11-24".
const MonthYearLayout = "01-06"

// Session is one league event. At most one session is open (not closed,
// not deleted) at a time; closing is driven by completion of round 2.
type Session struct {
	ID        string
	MonthYear string
	Date      time.Time
	Closed    bool
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Round is one of two per session. Round 1 seeds pods randomly, round 2
// seeds by standings.
type Round struct {
	ID        string
	SessionID string
	Number    int
	Completed bool
	StartedAt time.Time
}

type Pod struct {
	ID        string
	RoundID   string
	Submitted bool
	DeletedAt *time.Time
}

// PodMembership lists the participants seated in one pod.
type PodMembership struct {
	PodID          string
	ParticipantIDs []string
}

func MonthYearOf(t time.Time) string {
	return t.Format(MonthYearLayout)
}
