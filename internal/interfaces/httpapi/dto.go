package httpapi

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/advisor"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type matchPlayerRequest struct {
	PlayerID    string `json:"player_id" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=80"`
	ShirtNumber int    `json:"shirt_number" validate:"gte=0,lte=99"`
	OnField     bool   `json:"on_field"`
	IsKeeper    bool   `json:"is_keeper"`
}

type createMatchRequest struct {
	Opponent     string               `json:"opponent" validate:"required,max=80"`
	IsHome       bool                 `json:"is_home"`
	QuarterCount int                  `json:"quarter_count" validate:"required,oneof=2 4"`
	CoachPin     string               `json:"coach_pin" validate:"omitempty,min=4,max=12"`
	RefereeID    string               `json:"referee_id" validate:"omitempty,max=64"`
	Players      []matchPlayerRequest `json:"players" validate:"dive"`
}

type substitutionRequest struct {
	PlayerOutID string `json:"player_out_id" validate:"required"`
	PlayerInID  string `json:"player_in_id" validate:"required,nefield=PlayerOutID"`
}

type goalRequest struct {
	PlayerID       string `json:"player_id"`
	AssistPlayerID string `json:"assist_player_id"`
	IsOwnGoal      bool   `json:"is_own_goal"`
	IsOpponentGoal bool   `json:"is_opponent_goal"`
}

type scoreAdjustRequest struct {
	Side  string `json:"side" validate:"required,oneof=team opponent"`
	Delta int    `json:"delta" validate:"required,oneof=-1 1"`
}

type onFieldRequest struct {
	OnField *bool `json:"on_field" validate:"required"`
}

type clockDTO struct {
	GameSecond         int    `json:"game_second"`
	DisplayMinute      int    `json:"display_minute"`
	DisplayExtraMinute *int   `json:"display_extra_minute,omitempty"`
	Display            string `json:"display"`
}

type matchDTO struct {
	ID                   string     `json:"id"`
	TeamID               string     `json:"team_id"`
	Opponent             string     `json:"opponent"`
	IsHome               bool       `json:"is_home"`
	PublicCode           string     `json:"public_code"`
	Status               string     `json:"status"`
	CurrentQuarter       int        `json:"current_quarter"`
	QuarterCount         int        `json:"quarter_count"`
	Paused               bool       `json:"paused"`
	HomeScore            int        `json:"home_score"`
	AwayScore            int        `json:"away_score"`
	BankedOverrunSeconds int        `json:"banked_overrun_seconds"`
	LeadCoachID          string     `json:"lead_coach_id,omitempty"`
	RefereeID            string     `json:"referee_id,omitempty"`
	QuarterStartedAt     *time.Time `json:"quarter_started_at,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	FinishedAt           *time.Time `json:"finished_at,omitempty"`
	Clock                clockDTO   `json:"clock"`
	AsOf                 time.Time  `json:"as_of"`
}

type eventDTO struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	PlayerID           string    `json:"player_id,omitempty"`
	Quarter            int       `json:"quarter"`
	Timestamp          time.Time `json:"timestamp"`
	GameSecond         int       `json:"game_second"`
	DisplayMinute      int       `json:"display_minute"`
	DisplayExtraMinute *int      `json:"display_extra_minute,omitempty"`
	OwnGoal            bool      `json:"own_goal,omitempty"`
}

type undoGoalDTO struct {
	Match   matchDTO   `json:"match"`
	Removed []eventDTO `json:"removed"`
}

type playerTimeDTO struct {
	PlayerID      string  `json:"player_id"`
	Name          string  `json:"name"`
	ShirtNumber   int     `json:"shirt_number"`
	OnField       bool    `json:"on_field"`
	IsKeeper      bool    `json:"is_keeper"`
	MinutesPlayed float64 `json:"minutes_played"`
	LiveMinutes   float64 `json:"live_minutes"`
}

type playingTimeDTO struct {
	Status         string          `json:"status"`
	CurrentQuarter int             `json:"current_quarter"`
	Players        []playerTimeDTO `json:"players"`
}

type candidateDTO struct {
	PlayerID         string  `json:"player_id"`
	Name             string  `json:"name"`
	EffectiveMinutes float64 `json:"effective_minutes"`
}

type suggestionDTO struct {
	Out         candidateDTO `json:"out"`
	In          candidateDTO `json:"in"`
	MinutesDiff float64      `json:"minutes_diff"`
}

type suggestionsDTO struct {
	Suggestions  []suggestionDTO `json:"suggestions"`
	OnFieldCount int             `json:"on_field_count"`
	BenchCount   int             `json:"bench_count"`
}

type publicMatchDTO struct {
	Code           string     `json:"code"`
	Opponent       string     `json:"opponent"`
	IsHome         bool       `json:"is_home"`
	Status         string     `json:"status"`
	CurrentQuarter int        `json:"current_quarter"`
	QuarterCount   int        `json:"quarter_count"`
	Paused         bool       `json:"paused"`
	HomeScore      int        `json:"home_score"`
	AwayScore      int        `json:"away_score"`
	Clock          clockDTO   `json:"clock"`
	Events         []eventDTO `json:"events"`
	Revision       int64      `json:"revision"`
	AsOf           time.Time  `json:"as_of"`
}

func toClockDTO(gt match.GameTime) clockDTO {
	return clockDTO{
		GameSecond:         gt.GameSecond,
		DisplayMinute:      gt.DisplayMinute,
		DisplayExtraMinute: gt.DisplayExtraMinute,
		Display:            gt.String(),
	}
}

func toMatchDTO(state usecase.MatchState) matchDTO {
	m := state.Match
	return matchDTO{
		ID:                   m.ID,
		TeamID:               m.TeamID,
		Opponent:             m.Opponent,
		IsHome:               m.IsHome,
		PublicCode:           m.PublicCode,
		Status:               string(m.Status),
		CurrentQuarter:       m.CurrentQuarter,
		QuarterCount:         m.QuarterCount,
		Paused:               state.Paused,
		HomeScore:            m.HomeScore,
		AwayScore:            m.AwayScore,
		BankedOverrunSeconds: m.BankedOverrunSeconds,
		LeadCoachID:          m.LeadCoachID,
		RefereeID:            m.RefereeID,
		QuarterStartedAt:     m.QuarterStartedAt,
		StartedAt:            m.StartedAt,
		FinishedAt:           m.FinishedAt,
		Clock:                toClockDTO(state.GameTime),
		AsOf:                 state.AsOf,
	}
}

func toEventDTOs(events []matchevent.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, eventDTO{
			ID:                 e.ID,
			Type:               string(e.Type),
			PlayerID:           e.PlayerID,
			Quarter:            e.Quarter,
			Timestamp:          e.Timestamp,
			GameSecond:         e.GameSecond,
			DisplayMinute:      e.DisplayMinute,
			DisplayExtraMinute: e.DisplayExtraMinute,
			OwnGoal:            e.OwnGoal,
		})
	}
	return out
}

func toPlayingTimeDTO(pt usecase.PlayingTime) playingTimeDTO {
	players := make([]playerTimeDTO, 0, len(pt.Players))
	for _, item := range pt.Players {
		players = append(players, playerTimeDTO{
			PlayerID:      item.Player.PlayerID,
			Name:          item.Player.Name,
			ShirtNumber:   item.Player.ShirtNumber,
			OnField:       item.Player.OnField,
			IsKeeper:      item.Player.IsKeeper,
			MinutesPlayed: item.Player.MinutesPlayed,
			LiveMinutes:   item.LiveMinutes,
		})
	}
	return playingTimeDTO{
		Status:         string(pt.Status),
		CurrentQuarter: pt.CurrentQuarter,
		Players:        players,
	}
}

func toCandidateDTO(c advisor.Candidate) candidateDTO {
	return candidateDTO{PlayerID: c.PlayerID, Name: c.Name, EffectiveMinutes: c.EffectiveMinutes}
}

func toSuggestionsDTO(report usecase.SuggestedSubstitutions) suggestionsDTO {
	items := make([]suggestionDTO, 0, len(report.Suggestions))
	for _, s := range report.Suggestions {
		items = append(items, suggestionDTO{
			Out:         toCandidateDTO(s.Out),
			In:          toCandidateDTO(s.In),
			MinutesDiff: s.MinutesDiff,
		})
	}
	return suggestionsDTO{
		Suggestions:  items,
		OnFieldCount: report.OnFieldCount,
		BenchCount:   report.BenchCount,
	}
}

func toPublicMatchDTO(view usecase.PublicMatch) publicMatchDTO {
	return publicMatchDTO{
		Code:           view.Code,
		Opponent:       view.Opponent,
		IsHome:         view.IsHome,
		Status:         string(view.Status),
		CurrentQuarter: view.CurrentQuarter,
		QuarterCount:   view.QuarterCount,
		Paused:         view.Paused,
		HomeScore:      view.HomeScore,
		AwayScore:      view.AwayScore,
		Clock:          toClockDTO(view.GameTime),
		Events:         toEventDTOs(view.Events),
		Revision:       view.Revision,
		AsOf:           view.AsOf,
	}
}
