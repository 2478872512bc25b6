package matchplayer

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestEndSession_RoundsToOneDecimal(t *testing.T) {
	p := MatchPlayer{PlayerID: "p1"}
	if err := StartSession(&p, t0); err != nil {
		t.Fatalf("start session: %v", err)
	}

	added := EndSession(&p, t0.Add(7*time.Minute+20*time.Second))
	if p.MinutesPlayed != 7.3 {
		t.Fatalf("expected 7.3 minutes, got %v", p.MinutesPlayed)
	}
	if added != p.MinutesPlayed {
		t.Fatalf("expected added minutes %v, got %v", p.MinutesPlayed, added)
	}
	if p.SessionOpen() {
		t.Fatalf("expected session to be closed")
	}
}

func TestEndSession_NoOpenSession(t *testing.T) {
	p := MatchPlayer{PlayerID: "p1", MinutesPlayed: 4.5}
	if added := EndSession(&p, t0); added != 0 {
		t.Fatalf("expected no-op, added %v", added)
	}
	if p.MinutesPlayed != 4.5 {
		t.Fatalf("minutes changed: %v", p.MinutesPlayed)
	}
}

func TestStartSession_RejectsOpenSession(t *testing.T) {
	p := MatchPlayer{PlayerID: "p1"}
	_ = StartSession(&p, t0)
	if err := StartSession(&p, t0.Add(time.Minute)); !errors.Is(err, ErrSessionOpen) {
		t.Fatalf("expected ErrSessionOpen, got %v", err)
	}
}

func TestLedger_SumOfCompletedSessions(t *testing.T) {
	p := MatchPlayer{PlayerID: "p1", OnField: true}
	players := []MatchPlayer{p}

	StartOnField(players, t0)
	FreezeOnField(players, t0.Add(5*time.Minute))
	first := players[0].MinutesPlayed

	StartOnField(players, t0.Add(8*time.Minute))
	FreezeOnField(players, t0.Add(12*time.Minute+30*time.Second))

	if first != 5 {
		t.Fatalf("expected 5 after first session, got %v", first)
	}
	if players[0].MinutesPlayed != 9.5 {
		t.Fatalf("expected 9.5 total, got %v", players[0].MinutesPlayed)
	}
	if players[0].MinutesPlayed < first {
		t.Fatalf("minutes decreased")
	}
}

func TestFreezeOnField_IgnoresBench(t *testing.T) {
	players := []MatchPlayer{
		{PlayerID: "on", OnField: true},
		{PlayerID: "bench"},
	}
	StartOnField(players, t0)
	if players[1].SessionOpen() {
		t.Fatalf("bench player must not start a session")
	}

	FreezeOnField(players, t0.Add(3*time.Minute))
	if players[0].MinutesPlayed != 3 || players[1].MinutesPlayed != 0 {
		t.Fatalf("unexpected minutes: on=%v bench=%v", players[0].MinutesPlayed, players[1].MinutesPlayed)
	}
}

func TestSubstitute_ClockRunning(t *testing.T) {
	slot := 3
	out := MatchPlayer{PlayerID: "out", OnField: true, IsKeeper: true, FieldSlotIndex: &slot}
	in := MatchPlayer{PlayerID: "in"}
	_ = StartSession(&out, t0)

	at := t0.Add(10 * time.Minute)
	if err := Substitute(&out, &in, at, true); err != nil {
		t.Fatalf("substitute: %v", err)
	}

	if out.OnField || out.SessionOpen() || out.MinutesPlayed != 10 {
		t.Fatalf("unexpected out state: %+v", out)
	}
	if !in.OnField || in.LastSubbedInAt == nil || !in.LastSubbedInAt.Equal(at) {
		t.Fatalf("unexpected in state: %+v", in)
	}
	if out.IsKeeper || !in.IsKeeper {
		t.Fatalf("keeper role must follow the substitution")
	}
	if in.FieldSlotIndex == nil || *in.FieldSlotIndex != 3 || out.FieldSlotIndex != nil {
		t.Fatalf("field slot must move to the incoming player")
	}
}

func TestSubstitute_ClockStopped(t *testing.T) {
	out := MatchPlayer{PlayerID: "out", OnField: true}
	in := MatchPlayer{PlayerID: "in"}

	if err := Substitute(&out, &in, t0, false); err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if !in.OnField || in.SessionOpen() {
		t.Fatalf("expected flag flip without a session, got %+v", in)
	}
}

func TestSubstitute_Validation(t *testing.T) {
	cases := []struct {
		name string
		out  MatchPlayer
		in   MatchPlayer
		want error
	}{
		{name: "out on bench", out: MatchPlayer{PlayerID: "a"}, in: MatchPlayer{PlayerID: "b"}, want: ErrNotOnField},
		{name: "in already on field", out: MatchPlayer{PlayerID: "a", OnField: true}, in: MatchPlayer{PlayerID: "b", OnField: true}, want: ErrAlreadyOnField},
		{name: "same player", out: MatchPlayer{PlayerID: "a", OnField: true}, in: MatchPlayer{PlayerID: "a"}, want: ErrSamePlayer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, in := tc.out, tc.in
			if err := Substitute(&out, &in, t0, true); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLiveMinutes(t *testing.T) {
	p := MatchPlayer{PlayerID: "p1", MinutesPlayed: 2}
	_ = StartSession(&p, t0)
	if got := LiveMinutes(p, t0.Add(90*time.Second)); got != 3.5 {
		t.Fatalf("expected 3.5, got %v", got)
	}
}

func TestAssignKeeper(t *testing.T) {
	players := []MatchPlayer{
		{PlayerID: "a", OnField: true, IsKeeper: true},
		{PlayerID: "b", OnField: true},
		{PlayerID: "c"},
	}

	if err := AssignKeeper(players, "c"); !errors.Is(err, ErrKeeperOffField) {
		t.Fatalf("expected ErrKeeperOffField, got %v", err)
	}
	if err := AssignKeeper(players, "b"); err != nil {
		t.Fatalf("assign keeper: %v", err)
	}
	if players[0].IsKeeper || !players[1].IsKeeper {
		t.Fatalf("expected b to be the only keeper")
	}
}
