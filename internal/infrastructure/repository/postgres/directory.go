package postgres

import (
	"context"
	"crypto/subtle"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/access"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

// Directory reads coaches, their team memberships and referees.
type Directory struct {
	db *sqlx.DB
}

func NewDirectory(db *sqlx.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) FindCoachByPin(ctx context.Context, teamID, pin string) (access.Coach, bool, error) {
	query, args, err := qb.Select(
		"c.id",
		"c.name",
		"c.pin",
		"ARRAY(SELECT t.team_id FROM coach_teams t WHERE t.coach_id = c.id ORDER BY t.team_id) AS team_ids",
	).
		From("coaches c").
		Where(
			qb.IsNull("c.deleted_at"),
			qb.Expr("EXISTS (SELECT 1 FROM coach_teams ct WHERE ct.coach_id = c.id AND ct.team_id = ?)", teamID),
		).
		OrderBy("c.id").
		ToSQL()
	if err != nil {
		return access.Coach{}, false, crerr.Wrap(err, "build find coach query")
	}

	var rows []coachTableModel
	if err := d.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return access.Coach{}, false, crerr.Wrapf(err, "list coaches of team %s", teamID)
	}

	for _, row := range rows {
		if subtle.ConstantTimeCompare([]byte(row.Pin), []byte(pin)) == 1 {
			return coachFromRow(row), true, nil
		}
	}
	return access.Coach{}, false, nil
}

func (d *Directory) GetReferee(ctx context.Context, refereeID string) (access.Referee, bool, error) {
	query, args, err := qb.Select("id", "name", "pin").
		From("referees").
		Where(qb.Eq("id", refereeID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return access.Referee{}, false, crerr.Wrap(err, "build get referee query")
	}

	var row refereeTableModel
	if err := d.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return access.Referee{}, false, nil
		}
		return access.Referee{}, false, crerr.Wrapf(err, "get referee %s", refereeID)
	}

	return access.Referee{ID: row.ID, Name: row.Name, Pin: row.Pin}, true, nil
}
