package postgres

import (
	"time"

	"github.com/tapcycle/commander-league/internal/domain/session"
)

type sessionTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	MonthYear string     `db:"month_year"`
	Date      time.Time  `db:"session_date"`
	Closed    bool       `db:"closed"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (m sessionTableModel) toDomain() session.Session {
	return session.Session{
		ID:        m.PublicID,
		MonthYear: m.MonthYear,
		Date:      m.Date,
		Closed:    m.Closed,
		CreatedAt: m.CreatedAt,
		DeletedAt: m.DeletedAt,
	}
}

type roundTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	SessionPublicID string    `db:"session_public_id"`
	Number          int       `db:"number"`
	Completed       bool      `db:"completed"`
	StartedAt       time.Time `db:"started_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (m roundTableModel) toDomain() session.Round {
	return session.Round{
		ID:        m.PublicID,
		SessionID: m.SessionPublicID,
		Number:    m.Number,
		Completed: m.Completed,
		StartedAt: m.StartedAt,
	}
}

type podTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	RoundPublicID string     `db:"round_public_id"`
	Submitted     bool       `db:"submitted"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

func (m podTableModel) toDomain() session.Pod {
	return session.Pod{
		ID:        m.PublicID,
		RoundID:   m.RoundPublicID,
		Submitted: m.Submitted,
		DeletedAt: m.DeletedAt,
	}
}

type podParticipantTableModel struct {
	ID                  int64     `db:"id"`
	PodPublicID         string    `db:"pod_public_id"`
	ParticipantPublicID string    `db:"participant_public_id"`
	Seat                int       `db:"seat"`
	CreatedAt           time.Time `db:"created_at"`
}
