package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

// Aggregate is the unit of consistency for every match operation: the match
// row plus all of its player rows.
type Aggregate struct {
	Match   Match
	Players []matchplayer.MatchPlayer
}

func (a *Aggregate) player(playerID string) (*matchplayer.MatchPlayer, error) {
	idx := matchplayer.FindByPlayerID(a.Players, playerID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: player=%s", ErrPlayerNotInMatch, playerID)
	}
	return &a.Players[idx], nil
}

func (a *Aggregate) event(typ matchevent.Type, playerID string, at time.Time) matchevent.Event {
	stamp := GameTimeStamp(a.Match.ClockSnapshot(), at)
	return matchevent.Event{
		MatchID:            a.Match.ID,
		Type:               typ,
		PlayerID:           playerID,
		Quarter:            a.Match.CurrentQuarter,
		Timestamp:          at,
		GameSecond:         stamp.GameSecond,
		DisplayMinute:      stamp.DisplayMinute,
		DisplayExtraMinute: stamp.DisplayExtraMinute,
	}
}

func transitionError(op string, m Match, want string) error {
	state := string(m.Status)
	if m.Status == StatusLive && m.IsPaused() {
		state = "live (paused)"
	}
	return fmt.Errorf("%w: %s requires %s, match is %s", ErrInvalidTransition, op, want, state)
}

// OpenLineup moves a scheduled match into squad setup.
func OpenLineup(a *Aggregate, now time.Time) error {
	if a.Match.Status != StatusScheduled {
		return transitionError("open lineup", a.Match, "a scheduled match")
	}
	a.Match.Status = StatusLineup
	a.Match.UpdatedAt = now
	return nil
}

// Start kicks off quarter one and opens sessions for the pregame lineup.
func Start(a *Aggregate, now time.Time) ([]matchevent.Event, error) {
	m := &a.Match
	if m.Status != StatusScheduled && m.Status != StatusLineup {
		return nil, transitionError("kickoff", *m, "a scheduled match or lineup")
	}

	m.Status = StatusLive
	m.CurrentQuarter = 1
	m.StartedAt = timePtr(now)
	m.QuarterStartedAt = timePtr(now)
	m.PausedAt = nil
	m.AccumulatedPauseMs = 0
	m.BankedOverrunSeconds = 0
	m.UpdatedAt = now

	matchplayer.StartOnField(a.Players, now)

	return []matchevent.Event{a.event(matchevent.TypeQuarterStart, "", now)}, nil
}

// Pause freezes the clock and every open on-field session at now.
func Pause(a *Aggregate, now time.Time) error {
	m := &a.Match
	if m.Status != StatusLive {
		return transitionError("pause", *m, "a live quarter")
	}
	if m.IsPaused() {
		return fmt.Errorf("%w: clock is already paused", ErrInvalidTransition)
	}

	m.PausedAt = timePtr(now)
	m.UpdatedAt = now
	matchplayer.FreezeOnField(a.Players, now)
	return nil
}

// Resume restarts the clock, excluding the paused interval from game time.
func Resume(a *Aggregate, now time.Time) error {
	m := &a.Match
	if m.Status != StatusLive {
		return transitionError("resume", *m, "a live quarter")
	}
	if !m.IsPaused() {
		return fmt.Errorf("%w: clock is not paused", ErrInvalidTransition)
	}

	m.AccumulatedPauseMs += max(0, now.Sub(*m.PausedAt).Milliseconds())
	m.PausedAt = nil
	m.UpdatedAt = now
	matchplayer.StartOnField(a.Players, now)
	return nil
}

// NextQuarter ends the running quarter at the effective time, banks its
// stoppage time and either breaks for the next period or finishes the match.
func NextQuarter(a *Aggregate, now time.Time) ([]matchevent.Event, error) {
	m := &a.Match
	if m.Status != StatusLive {
		return nil, transitionError("end quarter", *m, "a live quarter")
	}

	snap := m.ClockSnapshot()
	endTime := EffectiveEventTime(snap, now)
	events := []matchevent.Event{a.event(matchevent.TypeQuarterEnd, "", endTime)}

	m.BankedOverrunSeconds += QuarterOverrunSeconds(snap, endTime)
	matchplayer.FreezeOnField(a.Players, endTime)

	if m.CurrentQuarter+1 > m.QuarterCount {
		m.Status = StatusFinished
		m.FinishedAt = timePtr(now)
	} else {
		m.Status = StatusHalftime
		m.CurrentQuarter++
	}
	m.QuarterStartedAt = nil
	m.PausedAt = nil
	m.AccumulatedPauseMs = 0
	m.UpdatedAt = now

	return events, nil
}

// ResumeFromHalftime starts the clock of the already advanced quarter.
func ResumeFromHalftime(a *Aggregate, now time.Time) ([]matchevent.Event, error) {
	m := &a.Match
	if m.Status != StatusHalftime {
		return nil, transitionError("resume from break", *m, "a break between quarters")
	}

	m.Status = StatusLive
	m.QuarterStartedAt = timePtr(now)
	m.PausedAt = nil
	m.AccumulatedPauseMs = 0
	m.UpdatedAt = now
	matchplayer.StartOnField(a.Players, now)

	return []matchevent.Event{a.event(matchevent.TypeQuarterStart, "", now)}, nil
}

// Substitute swaps two players. While live the swap happens at the effective
// time so a paused clock never credits time.
func Substitute(a *Aggregate, playerOutID, playerInID string, now time.Time) ([]matchevent.Event, error) {
	m := &a.Match
	if m.Status == StatusFinished {
		return nil, transitionError("substitute", *m, "an unfinished match")
	}

	out, err := a.player(playerOutID)
	if err != nil {
		return nil, err
	}
	in, err := a.player(playerInID)
	if err != nil {
		return nil, err
	}

	at := EffectiveEventTime(m.ClockSnapshot(), now)
	if err := matchplayer.Substitute(out, in, at, m.ClockRunning()); err != nil {
		return nil, err
	}
	m.UpdatedAt = now

	if !m.InProgress() {
		return nil, nil
	}
	return []matchevent.Event{
		a.event(matchevent.TypeSubOut, out.PlayerID, at),
		a.event(matchevent.TypeSubIn, in.PlayerID, at),
	}, nil
}

// SetOnField flips a player's pregame lineup flag.
func SetOnField(a *Aggregate, playerID string, onField bool, now time.Time) error {
	if a.Match.Status != StatusScheduled && a.Match.Status != StatusLineup {
		return transitionError("lineup edit", a.Match, "a match before kickoff")
	}
	p, err := a.player(playerID)
	if err != nil {
		return err
	}
	p.OnField = onField
	if !onField {
		p.IsKeeper = false
		p.FieldSlotIndex = nil
	}
	a.Match.UpdatedAt = now
	return nil
}

func SetKeeper(a *Aggregate, playerID string, now time.Time) error {
	if a.Match.Status == StatusFinished {
		return transitionError("keeper change", a.Match, "an unfinished match")
	}
	if _, err := a.player(playerID); err != nil {
		return err
	}
	if err := matchplayer.AssignKeeper(a.Players, playerID); err != nil {
		return err
	}
	a.Match.UpdatedAt = now
	return nil
}

// GoalInput describes a goal for AddGoal.
type GoalInput struct {
	PlayerID       string
	AssistPlayerID string
	IsOwnGoal      bool
	IsOpponentGoal bool
}

func (in GoalInput) normalize() GoalInput {
	in.PlayerID = strings.TrimSpace(in.PlayerID)
	in.AssistPlayerID = strings.TrimSpace(in.AssistPlayerID)
	return in
}

// AddGoal records a goal for the team or the opponent. An own goal is an
// opponent's own goal credited to the team, so it has no scorer or assist.
func AddGoal(a *Aggregate, in GoalInput, now time.Time) ([]matchevent.Event, error) {
	m := &a.Match
	if !m.InProgress() {
		return nil, transitionError("goal", *m, "a match in progress")
	}
	in = in.normalize()
	if in.IsOwnGoal && in.IsOpponentGoal {
		return nil, fmt.Errorf("%w: a goal cannot be both own goal and opponent goal", ErrInvalidMatch)
	}

	at := EffectiveEventTime(m.ClockSnapshot(), now)
	if in.IsOpponentGoal {
		m.ApplyScore(SideOpponent, 1)
		m.UpdatedAt = now
		return []matchevent.Event{a.event(matchevent.TypeOpponentGoal, "", at)}, nil
	}

	if in.IsOwnGoal {
		in.PlayerID, in.AssistPlayerID = "", ""
	}
	if in.PlayerID != "" {
		if _, err := a.player(in.PlayerID); err != nil {
			return nil, err
		}
	}
	if in.AssistPlayerID != "" {
		if in.AssistPlayerID == in.PlayerID {
			return nil, fmt.Errorf("%w: scorer cannot assist their own goal", ErrInvalidMatch)
		}
		if _, err := a.player(in.AssistPlayerID); err != nil {
			return nil, err
		}
	}

	goal := a.event(matchevent.TypeGoal, in.PlayerID, at)
	goal.OwnGoal = in.IsOwnGoal
	events := []matchevent.Event{goal}
	if in.AssistPlayerID != "" {
		events = append(events, a.event(matchevent.TypeAssist, in.AssistPlayerID, at))
	}

	m.ApplyScore(SideTeam, 1)
	m.UpdatedAt = now
	return events, nil
}

// UndoLastGoal reverses the most recent goal's score delta and returns the
// events to delete.
func UndoLastGoal(m *Match, events []matchevent.Event, now time.Time) ([]matchevent.Event, error) {
	if !m.InProgress() {
		return nil, transitionError("undo goal", *m, "a match in progress")
	}

	goal, assist, ok := matchevent.LastGoal(events)
	if !ok {
		return nil, ErrNoGoalToUndo
	}

	side := SideTeam
	if goal.Type == matchevent.TypeOpponentGoal {
		side = SideOpponent
	}
	m.ApplyScore(side, -1)
	m.UpdatedAt = now

	removed := []matchevent.Event{goal}
	if assist != nil {
		removed = append(removed, *assist)
	}
	return removed, nil
}

// AdjustScore applies a manual one-goal correction.
func AdjustScore(m *Match, side Side, delta int, now time.Time) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: score delta must be +1 or -1, got %d", ErrInvalidMatch, delta)
	}
	if side != SideTeam && side != SideOpponent {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidMatch, side)
	}
	if !m.InProgress() {
		return transitionError("score adjustment", *m, "a match in progress")
	}
	m.ApplyScore(side, delta)
	m.UpdatedAt = now
	return nil
}

// ClaimLead makes coachID the match lead unless another coach holds it.
func ClaimLead(m *Match, coachID string, now time.Time) error {
	if m.Status == StatusFinished {
		return transitionError("lead claim", *m, "an unfinished match")
	}
	if m.LeadCoachID != "" && m.LeadCoachID != coachID {
		return ErrLeadClaimed
	}
	m.LeadCoachID = coachID
	m.UpdatedAt = now
	return nil
}

func ReleaseLead(m *Match, coachID string, now time.Time) error {
	if m.LeadCoachID == "" {
		return nil
	}
	if m.LeadCoachID != coachID {
		return ErrLeadClaimed
	}
	m.LeadCoachID = ""
	m.UpdatedAt = now
	return nil
}
