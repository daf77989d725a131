package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tapcycle/commander-league/internal/domain/participant"
	qb "github.com/tapcycle/commander-league/internal/platform/querybuilder"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	query, args, err := qb.Select("*").From("participants").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, participantID string) (participant.Participant, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", participantID))
}

func (r *ParticipantRepository) GetByCode(ctx context.Context, code string) (participant.Participant, bool, error) {
	return r.getOne(ctx, qb.Eq("code", code), qb.IsNull("deleted_at"))
}

func (r *ParticipantRepository) GetByExternalRef(ctx context.Context, externalRef string) (participant.Participant, bool, error) {
	return r.getOne(ctx, qb.Eq("external_ref", externalRef), qb.IsNull("deleted_at"))
}

func (r *ParticipantRepository) getOne(ctx context.Context, conditions ...qb.Condition) (participant.Participant, bool, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, item participant.Participant) error {
	externalRef := sql.NullString{String: item.ExternalRef, Valid: item.ExternalRef != ""}
	query, args, err := qb.InsertInto("participants").
		Columns("public_id", "name", "code", "external_ref", "created_at").
		Values(item.ID, item.Name, item.Code, externalRef, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert participant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) Rename(ctx context.Context, participantID, name string) error {
	query, args, err := qb.Update("participants").
		Set("name", name).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", participantID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build rename participant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("rename participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) LinkExternalRef(ctx context.Context, participantID, externalRef string) error {
	query, args, err := qb.Update("participants").
		Set("external_ref", externalRef).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", participantID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build link external ref query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link external ref: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) SoftDelete(ctx context.Context, participantID string) error {
	query, args, err := qb.Update("participants").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", participantID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete participant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete participant: %w", err)
	}

	return nil
}
