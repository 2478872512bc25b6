package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo coaches and referees into an empty directory.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM coaches WHERE deleted_at IS NULL`); err != nil {
		return crerr.Wrap(err, "count coaches for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range memory.SeedCoaches() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO coaches (id, name, pin)
VALUES (:id, :name, :pin)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":   c.ID,
			"name": c.Name,
			"pin":  c.Pin,
		})
		if err != nil {
			return crerr.Wrapf(err, "bind seed coach %s query", c.ID)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return crerr.Wrapf(err, "seed coach %s", c.ID)
		}

		for _, teamID := range c.TeamIDs {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO coach_teams (coach_id, team_id)
VALUES ($1, $2)
ON CONFLICT (coach_id, team_id) DO NOTHING`, c.ID, teamID); err != nil {
				return crerr.Wrapf(err, "seed coach %s team %s", c.ID, teamID)
			}
		}
	}

	for _, r := range memory.SeedReferees() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO referees (id, name, pin)
VALUES (:id, :name, :pin)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":   r.ID,
			"name": r.Name,
			"pin":  r.Pin,
		})
		if err != nil {
			return crerr.Wrapf(err, "bind seed referee %s query", r.ID)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return crerr.Wrapf(err, "seed referee %s", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit seed tx")
	}
	return nil
}
