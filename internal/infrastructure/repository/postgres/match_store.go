package postgres

import (
	"context"
	"database/sql"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

// MatchStore runs every match operation in its own transaction. Writable
// transactions lock the match row on read so concurrent operations on one
// match serialize. Begin and commit failures feed the breaker; errors
// returned by the operation itself never do.
type MatchStore struct {
	begin   func(ctx context.Context, opts *sql.TxOptions) (txQueryer, error)
	breaker *resilience.CircuitBreaker
}

// NewMatchStore accepts a nil breaker.
func NewMatchStore(db *sqlx.DB, breaker *resilience.CircuitBreaker) *MatchStore {
	return &MatchStore{
		begin: func(ctx context.Context, opts *sql.TxOptions) (txQueryer, error) {
			tx, err := db.BeginTxx(ctx, opts)
			if err != nil {
				return nil, err
			}
			return tx, nil
		},
		breaker: breaker,
	}
}

func (s *MatchStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx match.Tx) error) error {
	return s.run(ctx, nil, true, fn)
}

func (s *MatchStore) View(ctx context.Context, fn func(ctx context.Context, tx match.Tx) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, false, fn)
}

func (s *MatchStore) run(ctx context.Context, opts *sql.TxOptions, lock bool, fn func(ctx context.Context, tx match.Tx) error) error {
	var opErr error
	err := s.breaker.Execute(func() error {
		tx, err := s.begin(ctx, opts)
		if err != nil {
			return crerr.Wrap(err, "begin match transaction")
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if opErr = fn(ctx, &matchTx{q: tx, lock: lock}); opErr != nil {
			return nil
		}

		if err := tx.Commit(); err != nil {
			return crerr.Wrap(err, "commit match transaction")
		}
		return nil
	}, isOutage)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return crerr.Wrap(err, "match store unavailable")
	}
	if err != nil {
		return err
	}
	return opErr
}

func isOutage(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

type matchTx struct {
	q    queryer
	lock bool
}

func (t *matchTx) GetMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	builder := matchBaseSelectBuilder().Where(qb.Eq("id", matchID))
	if t.lock {
		builder = builder.ForUpdate()
	}
	return t.getMatch(ctx, builder, "get match")
}

func (t *matchTx) GetMatchByCode(ctx context.Context, code string) (match.Match, bool, error) {
	return t.getMatch(ctx, matchBaseSelectBuilder().Where(qb.Eq("public_code", code)), "get match by code")
}

func (t *matchTx) getMatch(ctx context.Context, builder *qb.SelectBuilder, op string) (match.Match, bool, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrapf(err, "build %s query", op)
	}

	var row matchTableModel
	if err := t.q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, crerr.Wrap(err, op)
	}

	return matchFromRow(row), true, nil
}

func (t *matchTx) ListPlayers(ctx context.Context, matchID string) ([]matchplayer.MatchPlayer, error) {
	query, args, err := qb.Select("*").
		From(matchPlayersTable).
		Where(qb.Eq("match_id", matchID)).
		OrderBy("shirt_number", "player_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list match players query")
	}

	var rows []matchPlayerTableModel
	if err := t.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list players of match %s", matchID)
	}

	out := make([]matchplayer.MatchPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (t *matchTx) ListEvents(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select("*").
		From(matchEventsTable).
		Where(qb.Eq("match_id", matchID)).
		OrderBy("occurred_at", "created_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list match events query")
	}

	var rows []matchEventTableModel
	if err := t.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list events of match %s", matchID)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (t *matchTx) InsertMatch(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel(matchesTable, matchToRow(m), "")
	if err != nil {
		return crerr.Wrap(err, "build insert match query")
	}
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert match %s", m.ID)
	}
	return nil
}

func (t *matchTx) UpdateMatch(ctx context.Context, m match.Match) error {
	row := matchToRow(m)
	query, args, err := qb.Update(matchesTable).
		Set("status", row.Status).
		Set("current_quarter", row.CurrentQuarter).
		Set("quarter_started_at", row.QuarterStartedAt).
		Set("paused_at", row.PausedAt).
		Set("accumulated_pause_ms", row.AccumulatedPauseMs).
		Set("banked_overrun_seconds", row.BankedOverrunSeconds).
		Set("home_score", row.HomeScore).
		Set("away_score", row.AwayScore).
		Set("lead_coach_id", row.LeadCoachID).
		Set("revision", row.Revision).
		Set("started_at", row.StartedAt).
		Set("finished_at", row.FinishedAt).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", row.ID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update match query")
	}

	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrapf(err, "update match %s", m.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return crerr.Newf("update match %s: no row", m.ID)
	}
	return nil
}

func (t *matchTx) InsertPlayers(ctx context.Context, players []matchplayer.MatchPlayer) error {
	if len(players) == 0 {
		return nil
	}

	rows := make([]matchPlayerTableModel, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerToRow(p))
	}
	query, args, err := qb.InsertModels(matchPlayersTable, rows, "")
	if err != nil {
		return crerr.Wrap(err, "build insert match players query")
	}
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "insert match players")
	}
	return nil
}

func (t *matchTx) UpdatePlayers(ctx context.Context, players []matchplayer.MatchPlayer) error {
	for _, p := range players {
		row := playerToRow(p)
		query, args, err := qb.Update(matchPlayersTable).
			Set("on_field", row.OnField).
			Set("is_keeper", row.IsKeeper).
			Set("last_subbed_in_at", row.LastSubbedInAt).
			Set("minutes_played", row.MinutesPlayed).
			Set("field_slot_index", row.FieldSlotIndex).
			Where(qb.Eq("id", row.ID), qb.Eq("match_id", row.MatchID)).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build update match player query")
		}
		if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "update match player %s", p.PlayerID)
		}
	}
	return nil
}

func (t *matchTx) InsertEvents(ctx context.Context, events []matchevent.Event) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]matchEventTableModel, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventToRow(e))
	}
	query, args, err := qb.InsertModels(matchEventsTable, rows, "")
	if err != nil {
		return crerr.Wrap(err, "build insert match events query")
	}
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "insert match events")
	}
	return nil
}

func (t *matchTx) DeleteEvents(ctx context.Context, matchID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	query, args, err := qb.DeleteFrom(matchEventsTable).
		Where(qb.Eq("match_id", matchID), qb.In("id", toAnySlice(eventIDs))).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete match events query")
	}
	if _, err := t.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete events of match %s", matchID)
	}
	return nil
}

func matchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From(matchesTable)
}
