package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tapcycle/commander-league/internal/domain/color"
	qb "github.com/tapcycle/commander-league/internal/platform/querybuilder"
)

type colorTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Symbol    string    `db:"symbol"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	Mask      int       `db:"mask"`
	CreatedAt time.Time `db:"created_at"`
}

func (m colorTableModel) toDomain() color.Color {
	return color.Color{
		ID:     m.PublicID,
		Symbol: m.Symbol,
		Slug:   m.Slug,
		Name:   m.Name,
		Mask:   m.Mask,
	}
}

type ColorRepository struct {
	db *sqlx.DB
}

func NewColorRepository(db *sqlx.DB) *ColorRepository {
	return &ColorRepository{db: db}
}

func (r *ColorRepository) List(ctx context.Context) ([]color.Color, error) {
	query, args, err := qb.Select("*").From("colors").
		OrderBy("mask").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select colors query: %w", err)
	}

	var rows []colorTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select colors: %w", err)
	}

	out := make([]color.Color, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ColorRepository) GetByID(ctx context.Context, colorID string) (color.Color, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", colorID))
}

func (r *ColorRepository) GetBySymbol(ctx context.Context, symbol string) (color.Color, bool, error) {
	return r.getOne(ctx, qb.Eq("symbol", symbol))
}

func (r *ColorRepository) GetByMask(ctx context.Context, mask int) (color.Color, bool, error) {
	return r.getOne(ctx, qb.Eq("mask", mask))
}

func (r *ColorRepository) getOne(ctx context.Context, condition qb.Condition) (color.Color, bool, error) {
	query, args, err := qb.Select("*").From("colors").
		Where(condition).
		Limit(1).
		ToSQL()
	if err != nil {
		return color.Color{}, false, fmt.Errorf("build get color query: %w", err)
	}

	var row colorTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return color.Color{}, false, nil
		}
		return color.Color{}, false, fmt.Errorf("get color: %w", err)
	}

	return row.toDomain(), true, nil
}
