package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tapcycle/commander-league/internal/domain/achievement"
	qb "github.com/tapcycle/commander-league/internal/platform/querybuilder"
)

type AchievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) List(ctx context.Context) ([]achievement.Achievement, error) {
	query, args, err := qb.Select(achievementColumns).From(achievementJoin).
		OrderBy("a.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select achievements query: %w", err)
	}

	var rows []achievementTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select achievements: %w", err)
	}

	restrictions, err := r.restrictionsByAchievement(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]achievement.Achievement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(restrictions[row.PublicID]))
	}

	return out, nil
}

func (r *AchievementRepository) GetByID(ctx context.Context, achievementID string) (achievement.Achievement, bool, error) {
	return r.getOne(ctx, qb.Eq("a.public_id", achievementID))
}

func (r *AchievementRepository) GetBySlug(ctx context.Context, slug string) (achievement.Achievement, bool, error) {
	return r.getOne(ctx, qb.Eq("a.slug", slug), qb.IsNull("a.deleted_at"))
}

func (r *AchievementRepository) getOne(ctx context.Context, conditions ...qb.Condition) (achievement.Achievement, bool, error) {
	query, args, err := qb.Select(achievementColumns).From(achievementJoin).
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return achievement.Achievement{}, false, fmt.Errorf("build get achievement query: %w", err)
	}

	var row achievementTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return achievement.Achievement{}, false, nil
		}
		return achievement.Achievement{}, false, fmt.Errorf("get achievement: %w", err)
	}

	restrictionIDs, err := r.restrictionsFor(ctx, row.PublicID)
	if err != nil {
		return achievement.Achievement{}, false, err
	}

	return row.toDomain(restrictionIDs), true, nil
}

func (r *AchievementRepository) Create(ctx context.Context, item achievement.Achievement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create achievement tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	slug := sql.NullString{String: item.Slug, Valid: item.Slug != ""}
	var pointValue sql.NullInt64
	if item.PointValue != nil {
		pointValue = sql.NullInt64{Int64: int64(*item.PointValue), Valid: true}
	}
	var parentID sql.NullString
	if item.ParentID != nil {
		parentID = sql.NullString{String: *item.ParentID, Valid: true}
	}

	query, args, err := qb.InsertInto("achievements").
		Columns("public_id", "name", "slug", "point_value", "parent_public_id", "created_at").
		Values(item.ID, item.Name, slug, pointValue, parentID, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert achievement query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}

	if len(item.RestrictionIDs) > 0 {
		builder := qb.InsertInto("achievement_restrictions").
			Columns("achievement_public_id", "participant_public_id")
		for _, participantID := range item.RestrictionIDs {
			builder.Values(item.ID, participantID)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert restrictions query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert achievement restrictions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create achievement tx: %w", err)
	}

	return nil
}

func (r *AchievementRepository) SoftDelete(ctx context.Context, achievementID string) error {
	query, args, err := qb.Update("achievements").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", achievementID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete achievement query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete achievement: %w", err)
	}

	return nil
}

func (r *AchievementRepository) CreateGrant(ctx context.Context, item achievement.Grant) error {
	query, args, err := qb.InsertInto("participant_achievements").
		Columns("public_id", "participant_public_id", "achievement_public_id", "round_public_id", "session_public_id", "earned_points", "created_at").
		Values(item.ID, item.ParticipantID, item.AchievementID, item.RoundID, item.SessionID, item.EarnedPoints, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert grant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert grant: %w", err)
	}

	return nil
}

func (r *AchievementRepository) SoftDeleteGrant(ctx context.Context, grantID string) error {
	query, args, err := qb.Update("participant_achievements").
		SetExpr("deleted_at", "NOW()").
		Where(qb.Eq("public_id", grantID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete grant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete grant: %w", err)
	}

	return nil
}

func (r *AchievementRepository) ListGrantsByRound(ctx context.Context, roundID string) ([]achievement.Grant, error) {
	return r.listGrants(ctx, qb.Eq("round_public_id", roundID))
}

func (r *AchievementRepository) ListGrantsBySession(ctx context.Context, sessionID string) ([]achievement.Grant, error) {
	return r.listGrants(ctx, qb.Eq("session_public_id", sessionID))
}

func (r *AchievementRepository) ListGrants(ctx context.Context) ([]achievement.Grant, error) {
	return r.listGrants(ctx)
}

func (r *AchievementRepository) listGrants(ctx context.Context, conditions ...qb.Condition) ([]achievement.Grant, error) {
	query, args, err := qb.Select("*").From("participant_achievements").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select grants query: %w", err)
	}

	var rows []grantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select grants: %w", err)
	}

	out := make([]achievement.Grant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *AchievementRepository) TotalPointsByParticipant(ctx context.Context, participantIDs []string) (map[string]int, error) {
	if len(participantIDs) == 0 {
		return map[string]int{}, nil
	}

	values := make([]any, 0, len(participantIDs))
	for _, participantID := range participantIDs {
		values = append(values, participantID)
	}
	query, args, err := qb.Select("participant_public_id", "COALESCE(SUM(earned_points), 0) AS total").
		From("participant_achievements").
		Where(qb.In("participant_public_id", values), qb.IsNull("deleted_at")).
		GroupBy("participant_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build total points query: %w", err)
	}

	var rows []struct {
		ParticipantPublicID string `db:"participant_public_id"`
		Total               int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select total points: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ParticipantPublicID] = row.Total
	}

	return out, nil
}

func (r *AchievementRepository) restrictionsFor(ctx context.Context, achievementID string) ([]string, error) {
	query, args, err := qb.Select("participant_public_id").From("achievement_restrictions").
		Where(qb.Eq("achievement_public_id", achievementID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select restrictions query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select restrictions: %w", err)
	}

	return out, nil
}

func (r *AchievementRepository) restrictionsByAchievement(ctx context.Context) (map[string][]string, error) {
	query, args, err := qb.Select("achievement_public_id", "participant_public_id").
		From("achievement_restrictions").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select restrictions query: %w", err)
	}

	var rows []struct {
		AchievementPublicID string `db:"achievement_public_id"`
		ParticipantPublicID string `db:"participant_public_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select restrictions: %w", err)
	}

	out := make(map[string][]string)
	for _, row := range rows {
		out[row.AchievementPublicID] = append(out[row.AchievementPublicID], row.ParticipantPublicID)
	}

	return out, nil
}
