package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tapcycle/commander-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed installs the catalog rows the league logic depends on:
// all 32 color identities and the well-known achievements. Idempotent;
// reruns are no-ops.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range memory.SeedColors() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO colors (public_id, symbol, slug, name, mask)
VALUES (:public_id, :symbol, :slug, :name, :mask)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": c.ID,
			"symbol":    c.Symbol,
			"slug":      c.Slug,
			"name":      c.Name,
			"mask":      c.Mask,
		})
		if err != nil {
			return fmt.Errorf("bind seed color %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed color %s: %w", c.ID, err)
		}
	}

	for _, a := range memory.SeedAchievements() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO achievements (public_id, name, slug, point_value)
VALUES (:public_id, :name, :slug, :point_value)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":   a.ID,
			"name":        a.Name,
			"slug":        a.Slug,
			"point_value": a.PointValue,
		})
		if err != nil {
			return fmt.Errorf("bind seed achievement %s query: %w", a.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed achievement %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
