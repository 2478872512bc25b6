package matchplayer

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrSessionOpen    = errors.New("playing time session already open")
	ErrNotOnField     = errors.New("player is not on the field")
	ErrAlreadyOnField = errors.New("player is already on the field")
	ErrSamePlayer     = errors.New("player cannot replace themselves")
	ErrKeeperOffField = errors.New("keeper must be on the field")
)

// StartSession opens an on-field session at startTime.
func StartSession(p *MatchPlayer, startTime time.Time) error {
	if p.LastSubbedInAt != nil {
		return fmt.Errorf("%w: player=%s", ErrSessionOpen, p.PlayerID)
	}
	p.OnField = true
	at := startTime
	p.LastSubbedInAt = &at
	return nil
}

// EndSession credits the open session to MinutesPlayed and closes it. The
// total is rounded to one decimal on every write. Returns the minutes added.
func EndSession(p *MatchPlayer, endTime time.Time) float64 {
	if p.LastSubbedInAt == nil {
		return 0
	}

	session := max(0, float64(endTime.Sub(*p.LastSubbedInAt).Milliseconds())/60000)
	before := p.MinutesPlayed
	p.MinutesPlayed = RoundMinutes(p.MinutesPlayed + session)
	p.LastSubbedInAt = nil

	return p.MinutesPlayed - before
}

func RoundMinutes(v float64) float64 {
	return math.Round(v*10) / 10
}

// LiveMinutes projects the stored total plus the open session up to now.
func LiveMinutes(p MatchPlayer, now time.Time) float64 {
	if p.LastSubbedInAt == nil {
		return p.MinutesPlayed
	}
	session := max(0, float64(now.Sub(*p.LastSubbedInAt).Milliseconds())/60000)
	return RoundMinutes(p.MinutesPlayed + session)
}

// FreezeOnField closes every open on-field session at the given instant.
func FreezeOnField(players []MatchPlayer, at time.Time) {
	for i := range players {
		if players[i].OnField {
			EndSession(&players[i], at)
		}
	}
}

// StartOnField opens a session for every on-field player without one.
func StartOnField(players []MatchPlayer, at time.Time) {
	for i := range players {
		if players[i].OnField && players[i].LastSubbedInAt == nil {
			_ = StartSession(&players[i], at)
		}
	}
}

// Substitute swaps out for in at the given instant. Sessions only open when the
// clock is running; otherwise only the on-field flags change. The keeper role
// follows the substitution.
func Substitute(out, in *MatchPlayer, at time.Time, clockRunning bool) error {
	if out.PlayerID == in.PlayerID {
		return fmt.Errorf("%w: player=%s", ErrSamePlayer, out.PlayerID)
	}
	if !out.OnField {
		return fmt.Errorf("%w: player=%s", ErrNotOnField, out.PlayerID)
	}
	if in.OnField {
		return fmt.Errorf("%w: player=%s", ErrAlreadyOnField, in.PlayerID)
	}

	EndSession(out, at)
	out.OnField = false
	out.FieldSlotIndex, in.FieldSlotIndex = nil, out.FieldSlotIndex
	if out.IsKeeper {
		out.IsKeeper = false
		in.IsKeeper = true
	}

	if clockRunning {
		return StartSession(in, at)
	}
	in.OnField = true
	return nil
}

// AssignKeeper makes playerID the only on-field keeper.
func AssignKeeper(players []MatchPlayer, playerID string) error {
	idx := FindByPlayerID(players, playerID)
	if idx < 0 {
		return fmt.Errorf("unknown player %s", playerID)
	}
	if !players[idx].OnField {
		return fmt.Errorf("%w: player=%s", ErrKeeperOffField, playerID)
	}
	for i := range players {
		players[i].IsKeeper = i == idx
	}
	return nil
}
