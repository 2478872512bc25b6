package match

import (
	"fmt"
	"time"
)

// ClockSnapshot is the subset of match fields the game clock reads.
type ClockSnapshot struct {
	CurrentQuarter       int
	QuarterCount         int
	QuarterStartedAt     *time.Time
	PausedAt             *time.Time
	AccumulatedPauseMs   int64
	BankedOverrunSeconds int
}

// GameTime is a match-relative timestamp in football notation.
type GameTime struct {
	GameSecond         int
	DisplayMinute      int
	DisplayExtraMinute *int
}

func (g GameTime) String() string {
	if g.DisplayExtraMinute != nil {
		return fmt.Sprintf("%d+%d'", g.DisplayMinute, *g.DisplayExtraMinute)
	}
	return fmt.Sprintf("%d'", g.DisplayMinute)
}

// EffectiveEventTime freezes time at the pause instant while the clock is paused.
func EffectiveEventTime(s ClockSnapshot, now time.Time) time.Time {
	if s.PausedAt != nil {
		return *s.PausedAt
	}
	return now
}

func QuarterDurationSeconds(quarterCount int) int {
	if quarterCount <= 0 {
		return RegulationSeconds
	}
	return max(1, RegulationSeconds/quarterCount)
}

func ElapsedQuarterSeconds(s ClockSnapshot, effective time.Time) int {
	if s.QuarterStartedAt == nil {
		return 0
	}

	ms := effective.Sub(*s.QuarterStartedAt).Milliseconds() - s.AccumulatedPauseMs
	if ms <= 0 {
		return 0
	}
	return int(ms / 1000)
}

func QuarterOverrunSeconds(s ClockSnapshot, effective time.Time) int {
	return max(0, ElapsedQuarterSeconds(s, effective)-QuarterDurationSeconds(s.QuarterCount))
}

// GameTimeStamp anchors each quarter at its nominal offset and reports stoppage
// time separately. Banked overrun only shows once the final quarter reaches
// regulation time.
func GameTimeStamp(s ClockSnapshot, effective time.Time) GameTime {
	quarterSeconds := QuarterDurationSeconds(s.QuarterCount)
	elapsed := ElapsedQuarterSeconds(s, effective)

	offset := max(0, s.CurrentQuarter-1) * quarterSeconds
	gameSecond := offset + min(elapsed, quarterSeconds)
	overrun := max(0, elapsed-quarterSeconds)

	carried := 0
	if s.CurrentQuarter >= s.QuarterCount && gameSecond >= RegulationSeconds {
		carried = s.BankedOverrunSeconds
	}

	out := GameTime{
		GameSecond:    gameSecond,
		DisplayMinute: gameSecond / 60,
	}
	if extra := overrun + carried; extra > 0 {
		minutes := (extra + 59) / 60
		out.DisplayExtraMinute = &minutes
	}

	return out
}
