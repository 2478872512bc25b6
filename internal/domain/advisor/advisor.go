package advisor

import (
	"sort"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

const (
	MaxSuggestions = 3
	// FairnessThresholdMinutes is the minimum gap, exclusive, between the
	// outgoing and incoming player before a swap is worth suggesting.
	FairnessThresholdMinutes = 2.0
)

type Candidate struct {
	PlayerID         string
	Name             string
	EffectiveMinutes float64
}

type Suggestion struct {
	Out         Candidate
	In          Candidate
	MinutesDiff float64
}

type Report struct {
	Suggestions  []Suggestion
	OnFieldCount int
	BenchCount   int
}

// Suggest pairs the most-played outfield players with the least-played bench
// players. Live session time is only projected while the clock runs.
func Suggest(players []matchplayer.MatchPlayer, now time.Time, clockRunning bool) Report {
	onField := make([]Candidate, 0, len(players))
	bench := make([]Candidate, 0, len(players))
	report := Report{}

	for _, p := range players {
		minutes := p.MinutesPlayed
		if clockRunning && p.OnField {
			minutes = matchplayer.LiveMinutes(p, now)
		}
		c := Candidate{PlayerID: p.PlayerID, Name: p.Name, EffectiveMinutes: minutes}

		switch {
		case p.OnField:
			report.OnFieldCount++
			if !p.IsKeeper {
				onField = append(onField, c)
			}
		default:
			report.BenchCount++
			bench = append(bench, c)
		}
	}

	sort.SliceStable(onField, func(i, j int) bool {
		if onField[i].EffectiveMinutes != onField[j].EffectiveMinutes {
			return onField[i].EffectiveMinutes > onField[j].EffectiveMinutes
		}
		return onField[i].PlayerID < onField[j].PlayerID
	})
	sort.SliceStable(bench, func(i, j int) bool {
		if bench[i].EffectiveMinutes != bench[j].EffectiveMinutes {
			return bench[i].EffectiveMinutes < bench[j].EffectiveMinutes
		}
		return bench[i].PlayerID < bench[j].PlayerID
	})

	pairs := min(len(onField), len(bench), MaxSuggestions)
	report.Suggestions = make([]Suggestion, 0, pairs)
	for i := 0; i < pairs; i++ {
		diff := matchplayer.RoundMinutes(onField[i].EffectiveMinutes - bench[i].EffectiveMinutes)
		if diff <= FairnessThresholdMinutes {
			continue
		}
		report.Suggestions = append(report.Suggestions, Suggestion{
			Out:         onField[i],
			In:          bench[i],
			MinutesDiff: diff,
		})
	}

	return report
}
