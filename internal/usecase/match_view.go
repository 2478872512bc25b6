package usecase

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/advisor"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

// MatchState is the operator view of a match at one instant.
type MatchState struct {
	Match    match.Match
	Paused   bool
	GameTime match.GameTime
	AsOf     time.Time
}

type PlayerMinutes struct {
	Player      matchplayer.MatchPlayer
	LiveMinutes float64
}

type PlayingTime struct {
	Status         match.Status
	CurrentQuarter int
	Players        []PlayerMinutes
}

type SuggestedSubstitutions = advisor.Report

// PublicMatch is the spectator view; it never carries PINs or lead details.
type PublicMatch struct {
	Code           string
	Opponent       string
	IsHome         bool
	Status         match.Status
	CurrentQuarter int
	QuarterCount   int
	Paused         bool
	HomeScore      int
	AwayScore      int
	GameTime       match.GameTime
	Events         []matchevent.Event
	Revision       int64
	AsOf           time.Time
}

func buildMatchState(m match.Match, now time.Time) MatchState {
	snap := m.ClockSnapshot()
	return MatchState{
		Match:    m,
		Paused:   m.IsPaused(),
		GameTime: match.GameTimeStamp(snap, match.EffectiveEventTime(snap, now)),
		AsOf:     now,
	}
}

func buildPlayingTime(m match.Match, players []matchplayer.MatchPlayer, now time.Time) PlayingTime {
	out := PlayingTime{
		Status:         m.Status,
		CurrentQuarter: m.CurrentQuarter,
		Players:        make([]PlayerMinutes, 0, len(players)),
	}
	running := m.ClockRunning()
	for _, p := range players {
		minutes := p.MinutesPlayed
		if running && p.OnField {
			minutes = matchplayer.LiveMinutes(p, now)
		}
		out.Players = append(out.Players, PlayerMinutes{Player: p, LiveMinutes: minutes})
	}
	return out
}

func buildPublicMatch(m match.Match, events []matchevent.Event, now time.Time) PublicMatch {
	state := buildMatchState(m, now)
	sorted := append([]matchevent.Event(nil), events...)
	matchevent.SortByTimestamp(sorted)

	return PublicMatch{
		Code:           m.PublicCode,
		Opponent:       m.Opponent,
		IsHome:         m.IsHome,
		Status:         m.Status,
		CurrentQuarter: m.CurrentQuarter,
		QuarterCount:   m.QuarterCount,
		Paused:         state.Paused,
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		GameTime:       state.GameTime,
		Events:         sorted,
		Revision:       m.Revision,
		AsOf:           now,
	}
}
