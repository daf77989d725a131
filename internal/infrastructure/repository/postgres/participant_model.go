package postgres

import (
	"database/sql"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/participant"
)

type participantTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Name        string         `db:"name"`
	Code        string         `db:"code"`
	ExternalRef sql.NullString `db:"external_ref"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

func (m participantTableModel) toDomain() participant.Participant {
	return participant.Participant{
		ID:          m.PublicID,
		Name:        m.Name,
		Code:        m.Code,
		ExternalRef: m.ExternalRef.String,
		CreatedAt:   m.CreatedAt,
		DeletedAt:   m.DeletedAt,
	}
}
