package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tapcycle/commander-league/internal/domain/scoresheet"
	qb "github.com/tapcycle/commander-league/internal/platform/querybuilder"
)

type winningCommanderTableModel struct {
	ID                  int64          `db:"id"`
	PodPublicID         string         `db:"pod_public_id"`
	Name                string         `db:"name"`
	ColorPublicID       sql.NullString `db:"color_public_id"`
	ParticipantPublicID sql.NullString `db:"participant_public_id"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (m winningCommanderTableModel) toDomain() scoresheet.WinningCommander {
	out := scoresheet.WinningCommander{
		PodID: m.PodPublicID,
		Name:  m.Name,
	}
	if m.ColorPublicID.Valid {
		colorID := m.ColorPublicID.String
		out.ColorID = &colorID
	}
	if m.ParticipantPublicID.Valid {
		participantID := m.ParticipantPublicID.String
		out.ParticipantID = &participantID
	}
	return out
}

type ScoresheetRepository struct {
	db *sqlx.DB
}

func NewScoresheetRepository(db *sqlx.DB) *ScoresheetRepository {
	return &ScoresheetRepository{db: db}
}

// Apply lands grant soft-deletes, grant inserts and the per-pod
// winning-commander upsert in one transaction.
func (r *ScoresheetRepository) Apply(ctx context.Context, m scoresheet.Mutations) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply scoresheet tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if len(m.SoftDeleteGrantIDs) > 0 {
		values := make([]any, 0, len(m.SoftDeleteGrantIDs))
		for _, grantID := range m.SoftDeleteGrantIDs {
			values = append(values, grantID)
		}
		query, args, err := qb.Update("participant_achievements").
			SetExpr("deleted_at", "NOW()").
			Where(qb.In("public_id", values), qb.IsNull("deleted_at")).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build revoke grants query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("revoke grants: %w", err)
		}
	}

	if len(m.Creates) > 0 {
		builder := qb.InsertInto("participant_achievements").
			Columns("public_id", "participant_public_id", "achievement_public_id", "round_public_id", "session_public_id", "earned_points", "created_at")
		for _, grant := range m.Creates {
			builder.Values(grant.ID, grant.ParticipantID, grant.AchievementID, grant.RoundID, grant.SessionID, grant.EarnedPoints, grant.CreatedAt)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert grants query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert grants: %w", err)
		}
	}

	colorID := sql.NullString{}
	if m.Commander.ColorID != nil {
		colorID = sql.NullString{String: *m.Commander.ColorID, Valid: true}
	}
	participantID := sql.NullString{}
	if m.Commander.ParticipantID != nil {
		participantID = sql.NullString{String: *m.Commander.ParticipantID, Valid: true}
	}
	query, args, err := qb.InsertInto("winning_commanders").
		Columns("pod_public_id", "name", "color_public_id", "participant_public_id").
		Values(m.PodID, m.Commander.Name, colorID, participantID).
		Suffix(`ON CONFLICT (pod_public_id) DO UPDATE SET
name = EXCLUDED.name,
color_public_id = EXCLUDED.color_public_id,
participant_public_id = EXCLUDED.participant_public_id,
updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert commander query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert winning commander: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply scoresheet tx: %w", err)
	}

	return nil
}

func (r *ScoresheetRepository) GetWinningCommanderByPod(ctx context.Context, podID string) (scoresheet.WinningCommander, bool, error) {
	query, args, err := qb.Select("*").From("winning_commanders").
		Where(qb.Eq("pod_public_id", podID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return scoresheet.WinningCommander{}, false, fmt.Errorf("build get commander query: %w", err)
	}

	var row winningCommanderTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoresheet.WinningCommander{}, false, nil
		}
		return scoresheet.WinningCommander{}, false, fmt.Errorf("get winning commander: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ScoresheetRepository) ListWinningCommanders(ctx context.Context) ([]scoresheet.WinningCommander, error) {
	query, args, err := qb.Select("*").From("winning_commanders").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select commanders query: %w", err)
	}

	var rows []winningCommanderTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select winning commanders: %w", err)
	}

	out := make([]scoresheet.WinningCommander, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
