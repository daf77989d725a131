package postgres

import (
	"database/sql"
	"time"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
)

type achievementTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	Name             string         `db:"name"`
	Slug             sql.NullString `db:"slug"`
	PointValue       sql.NullInt64  `db:"point_value"`
	ParentPublicID   sql.NullString `db:"parent_public_id"`
	ParentPointValue sql.NullInt64  `db:"parent_point_value"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

func (m achievementTableModel) toDomain(restrictionIDs []string) achievement.Achievement {
	out := achievement.Achievement{
		ID:             m.PublicID,
		Name:           m.Name,
		Slug:           m.Slug.String,
		RestrictionIDs: restrictionIDs,
		CreatedAt:      m.CreatedAt,
		DeletedAt:      m.DeletedAt,
	}
	if m.PointValue.Valid {
		points := int(m.PointValue.Int64)
		out.PointValue = &points
	}
	if m.ParentPublicID.Valid {
		parentID := m.ParentPublicID.String
		out.ParentID = &parentID
	}
	if m.ParentPointValue.Valid {
		points := int(m.ParentPointValue.Int64)
		out.ParentPointValue = &points
	}
	return out
}

type grantTableModel struct {
	ID                  int64      `db:"id"`
	PublicID            string     `db:"public_id"`
	ParticipantPublicID string     `db:"participant_public_id"`
	AchievementPublicID string     `db:"achievement_public_id"`
	RoundPublicID       string     `db:"round_public_id"`
	SessionPublicID     string     `db:"session_public_id"`
	EarnedPoints        int        `db:"earned_points"`
	CreatedAt           time.Time  `db:"created_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

func (m grantTableModel) toDomain() achievement.Grant {
	return achievement.Grant{
		ID:            m.PublicID,
		ParticipantID: m.ParticipantPublicID,
		AchievementID: m.AchievementPublicID,
		RoundID:       m.RoundPublicID,
		SessionID:     m.SessionPublicID,
		EarnedPoints:  m.EarnedPoints,
		CreatedAt:     m.CreatedAt,
		DeletedAt:     m.DeletedAt,
	}
}

// achievementColumns selects the catalog row plus the parent's point
// value resolved in the same query.
const achievementColumns = `
a.id, a.public_id, a.name, a.slug, a.point_value, a.parent_public_id,
p.point_value AS parent_point_value,
a.created_at, a.updated_at, a.deleted_at`

const achievementJoin = "achievements a LEFT JOIN achievements p ON p.public_id = a.parent_public_id"
