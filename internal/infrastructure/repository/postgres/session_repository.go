package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tapcycle/commander-league/internal/domain/session"
	qb "github.com/tapcycle/commander-league/internal/platform/querybuilder"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, item session.Session) error {
	query, args, err := qb.InsertInto("sessions").
		Columns("public_id", "month_year", "session_date", "closed", "created_at").
		Values(item.ID, item.MonthYear, item.Date, item.Closed, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetSessionByID(ctx context.Context, sessionID string) (session.Session, bool, error) {
	query, args, err := qb.Select("*").From("sessions").
		Where(qb.Eq("public_id", sessionID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build get session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SessionRepository) GetOpenSession(ctx context.Context) (session.Session, bool, error) {
	query, args, err := qb.Select("*").From("sessions").
		Where(qb.Eq("closed", false), qb.IsNull("deleted_at")).
		OrderBy("id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build get open session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get open session: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SessionRepository) ListSessions(ctx context.Context) ([]session.Session, error) {
	query, args, err := qb.Select("*").From("sessions").
		Where(qb.IsNull("deleted_at")).
		OrderBy("session_date DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sessions query: %w", err)
	}

	var rows []sessionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}

	out := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SessionRepository) CloseSession(ctx context.Context, sessionID string) error {
	query, args, err := qb.Update("sessions").
		Set("closed", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", sessionID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	return nil
}

func (r *SessionRepository) CreateRound(ctx context.Context, item session.Round) error {
	query, args, err := qb.InsertInto("rounds").
		Columns("public_id", "session_public_id", "number", "completed", "started_at").
		Values(item.ID, item.SessionID, item.Number, item.Completed, item.StartedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert round query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetRoundByID(ctx context.Context, roundID string) (session.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("public_id", roundID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return session.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Round{}, false, nil
		}
		return session.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SessionRepository) ListRoundsBySession(ctx context.Context, sessionID string) ([]session.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("session_public_id", sessionID)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}

	out := make([]session.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SessionRepository) MarkRoundCompleted(ctx context.Context, roundID string) error {
	query, args, err := qb.Update("rounds").
		Set("completed", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", roundID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark round completed query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark round completed: %w", err)
	}

	return nil
}

func (r *SessionRepository) CreatePod(ctx context.Context, item session.Pod) error {
	query, args, err := qb.InsertInto("pods").
		Columns("public_id", "round_public_id", "submitted").
		Values(item.ID, item.RoundID, item.Submitted).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert pod query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert pod: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetPodByID(ctx context.Context, podID string) (session.Pod, bool, error) {
	query, args, err := qb.Select("*").From("pods").
		Where(qb.Eq("public_id", podID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return session.Pod{}, false, fmt.Errorf("build get pod query: %w", err)
	}

	var row podTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Pod{}, false, nil
		}
		return session.Pod{}, false, fmt.Errorf("get pod: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SessionRepository) ListPodsByRound(ctx context.Context, roundID string) ([]session.Pod, error) {
	query, args, err := qb.Select("*").From("pods").
		Where(qb.Eq("round_public_id", roundID), qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pods query: %w", err)
	}

	var rows []podTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pods: %w", err)
	}

	out := make([]session.Pod, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SessionRepository) MarkPodSubmitted(ctx context.Context, podID string) error {
	query, args, err := qb.Update("pods").
		Set("submitted", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", podID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark pod submitted query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark pod submitted: %w", err)
	}

	return nil
}

func (r *SessionRepository) SoftDeletePod(ctx context.Context, podID string) error {
	query, args, err := qb.Update("pods").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", podID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete pod query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete pod: %w", err)
	}

	return nil
}

// ReplaceRoundMemberships swaps every seat row of the round's live pods
// inside one transaction.
func (r *SessionRepository) ReplaceRoundMemberships(ctx context.Context, roundID string, memberships []session.PodMembership) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace memberships tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery := `
DELETE FROM pod_participants
WHERE pod_public_id IN (
	SELECT public_id FROM pods WHERE round_public_id = $1
)`
	if _, err := tx.ExecContext(ctx, deleteQuery, roundID); err != nil {
		return fmt.Errorf("delete round memberships: %w", err)
	}

	for _, m := range memberships {
		if len(m.ParticipantIDs) == 0 {
			continue
		}
		builder := qb.InsertInto("pod_participants").
			Columns("pod_public_id", "participant_public_id", "seat")
		for seat, participantID := range m.ParticipantIDs {
			builder.Values(m.PodID, participantID, seat)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert memberships query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert pod memberships: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace memberships tx: %w", err)
	}

	return nil
}

func (r *SessionRepository) ListMembershipsByRound(ctx context.Context, roundID string) ([]session.PodMembership, error) {
	query := `
SELECT pp.pod_public_id, pp.participant_public_id, pp.seat
FROM pod_participants pp
JOIN pods p ON p.public_id = pp.pod_public_id
WHERE p.round_public_id = $1 AND p.deleted_at IS NULL
ORDER BY p.id, pp.seat`

	var rows []struct {
		PodPublicID         string `db:"pod_public_id"`
		ParticipantPublicID string `db:"participant_public_id"`
		Seat                int    `db:"seat"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("select round memberships: %w", err)
	}

	out := make([]session.PodMembership, 0)
	index := make(map[string]int)
	for _, row := range rows {
		idx, ok := index[row.PodPublicID]
		if !ok {
			idx = len(out)
			index[row.PodPublicID] = idx
			out = append(out, session.PodMembership{PodID: row.PodPublicID})
		}
		out[idx].ParticipantIDs = append(out[idx].ParticipantIDs, row.ParticipantPublicID)
	}

	return out, nil
}

func (r *SessionRepository) ListParticipantsByPod(ctx context.Context, podID string) ([]string, error) {
	query, args, err := qb.Select("participant_public_id").From("pod_participants").
		Where(qb.Eq("pod_public_id", podID)).
		OrderBy("seat").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pod participants query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select pod participants: %w", err)
	}

	return out, nil
}
