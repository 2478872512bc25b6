package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "status").
		From("matches").
		Where(Eq("team_id", "t1"), IsNull("finished_at")).
		OrderBy("created_at DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status FROM matches WHERE team_id = $1 AND finished_at IS NULL ORDER BY created_at DESC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ForUpdate(t *testing.T) {
	query, args, err := Select("*").
		From("matches").
		Where(Eq("id", "m1")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM matches WHERE id = $1 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("id", "opponent").
		Values("m1", "Hawks").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (id, opponent) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != "Hawks" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID       string `db:"id"`
		MatchID  string `db:"match_id"`
		internal string
		Skipped  string `db:"-"`
	}

	query, args, err := InsertModels("match_events", []row{
		{ID: "e1", MatchID: "m1", internal: "x"},
		{ID: "e2", MatchID: "m1"},
	}, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO match_events (id, match_id) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "e2" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("match_events", nil, ""); err == nil {
		t.Fatalf("expected error for empty model list")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("status", "live").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "live" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestExprCondition(t *testing.T) {
	query, args, err := Select("c.id").
		From("coaches c").
		Where(
			Eq("c.pin", "1111"),
			Expr("EXISTS (SELECT 1 FROM coach_teams ct WHERE ct.coach_id = c.id AND ct.team_id = ?)", "team-1"),
			Expr("c.note <> '?'"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT c.id FROM coaches c WHERE c.pin = $1 AND EXISTS (SELECT 1 FROM coach_teams ct WHERE ct.coach_id = c.id AND ct.team_id = $2) AND c.note <> '?'"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "team-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInConditionEmpty(t *testing.T) {
	query, args, err := Select("id").From("match_events").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM match_events WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected empty IN rendering: %s %+v", query, args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("match_events").
		Where(Eq("match_id", "m1"), In("id", []any{"e1", "e2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM match_events WHERE match_id = $1 AND id IN ($2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("match_events").ToSQL(); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}
}
