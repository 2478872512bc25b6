package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/matchday/internal/domain/access"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

const (
	matchesTable      = "matches"
	matchPlayersTable = "match_players"
	matchEventsTable  = "match_events"
)

type matchTableModel struct {
	ID                   string     `db:"id"`
	TeamID               string     `db:"team_id"`
	Opponent             string     `db:"opponent"`
	IsHome               bool       `db:"is_home"`
	PublicCode           string     `db:"public_code"`
	Status               string     `db:"status"`
	CurrentQuarter       int        `db:"current_quarter"`
	QuarterCount         int        `db:"quarter_count"`
	QuarterStartedAt     *time.Time `db:"quarter_started_at"`
	PausedAt             *time.Time `db:"paused_at"`
	AccumulatedPauseMs   int64      `db:"accumulated_pause_ms"`
	BankedOverrunSeconds int        `db:"banked_overrun_seconds"`
	HomeScore            int        `db:"home_score"`
	AwayScore            int        `db:"away_score"`
	CoachPin             string     `db:"coach_pin"`
	RefereeID            string     `db:"referee_id"`
	LeadCoachID          string     `db:"lead_coach_id"`
	Revision             int64      `db:"revision"`
	StartedAt            *time.Time `db:"started_at"`
	FinishedAt           *time.Time `db:"finished_at"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

type matchPlayerTableModel struct {
	ID             string     `db:"id"`
	MatchID        string     `db:"match_id"`
	PlayerID       string     `db:"player_id"`
	Name           string     `db:"name"`
	ShirtNumber    int        `db:"shirt_number"`
	OnField        bool       `db:"on_field"`
	IsKeeper       bool       `db:"is_keeper"`
	LastSubbedInAt *time.Time `db:"last_subbed_in_at"`
	MinutesPlayed  float64    `db:"minutes_played"`
	FieldSlotIndex *int       `db:"field_slot_index"`
}

type matchEventTableModel struct {
	ID                 string    `db:"id"`
	MatchID            string    `db:"match_id"`
	Type               string    `db:"event_type"`
	PlayerID           string    `db:"player_id"`
	Quarter            int       `db:"quarter"`
	OccurredAt         time.Time `db:"occurred_at"`
	GameSecond         int       `db:"game_second"`
	DisplayMinute      int       `db:"display_minute"`
	DisplayExtraMinute *int      `db:"display_extra_minute"`
	OwnGoal            bool      `db:"own_goal"`
	CreatedAt          time.Time `db:"created_at"`
}

type coachTableModel struct {
	ID      string         `db:"id"`
	Name    string         `db:"name"`
	Pin     string         `db:"pin"`
	TeamIDs pq.StringArray `db:"team_ids"`
}

type refereeTableModel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Pin  string `db:"pin"`
}

func matchToRow(m match.Match) matchTableModel {
	return matchTableModel{
		ID:                   m.ID,
		TeamID:               m.TeamID,
		Opponent:             m.Opponent,
		IsHome:               m.IsHome,
		PublicCode:           m.PublicCode,
		Status:               string(m.Status),
		CurrentQuarter:       m.CurrentQuarter,
		QuarterCount:         m.QuarterCount,
		QuarterStartedAt:     m.QuarterStartedAt,
		PausedAt:             m.PausedAt,
		AccumulatedPauseMs:   m.AccumulatedPauseMs,
		BankedOverrunSeconds: m.BankedOverrunSeconds,
		HomeScore:            m.HomeScore,
		AwayScore:            m.AwayScore,
		CoachPin:             m.CoachPin,
		RefereeID:            m.RefereeID,
		LeadCoachID:          m.LeadCoachID,
		Revision:             m.Revision,
		StartedAt:            m.StartedAt,
		FinishedAt:           m.FinishedAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:                   row.ID,
		TeamID:               row.TeamID,
		Opponent:             row.Opponent,
		IsHome:               row.IsHome,
		PublicCode:           row.PublicCode,
		Status:               match.Status(row.Status),
		CurrentQuarter:       row.CurrentQuarter,
		QuarterCount:         row.QuarterCount,
		QuarterStartedAt:     utcPtr(row.QuarterStartedAt),
		PausedAt:             utcPtr(row.PausedAt),
		AccumulatedPauseMs:   row.AccumulatedPauseMs,
		BankedOverrunSeconds: row.BankedOverrunSeconds,
		HomeScore:            row.HomeScore,
		AwayScore:            row.AwayScore,
		CoachPin:             row.CoachPin,
		RefereeID:            row.RefereeID,
		LeadCoachID:          row.LeadCoachID,
		Revision:             row.Revision,
		StartedAt:            utcPtr(row.StartedAt),
		FinishedAt:           utcPtr(row.FinishedAt),
		CreatedAt:            row.CreatedAt.UTC(),
		UpdatedAt:            row.UpdatedAt.UTC(),
	}
}

func playerToRow(p matchplayer.MatchPlayer) matchPlayerTableModel {
	return matchPlayerTableModel{
		ID:             p.ID,
		MatchID:        p.MatchID,
		PlayerID:       p.PlayerID,
		Name:           p.Name,
		ShirtNumber:    p.ShirtNumber,
		OnField:        p.OnField,
		IsKeeper:       p.IsKeeper,
		LastSubbedInAt: p.LastSubbedInAt,
		MinutesPlayed:  p.MinutesPlayed,
		FieldSlotIndex: p.FieldSlotIndex,
	}
}

func playerFromRow(row matchPlayerTableModel) matchplayer.MatchPlayer {
	return matchplayer.MatchPlayer{
		ID:             row.ID,
		MatchID:        row.MatchID,
		PlayerID:       row.PlayerID,
		Name:           row.Name,
		ShirtNumber:    row.ShirtNumber,
		OnField:        row.OnField,
		IsKeeper:       row.IsKeeper,
		LastSubbedInAt: utcPtr(row.LastSubbedInAt),
		MinutesPlayed:  row.MinutesPlayed,
		FieldSlotIndex: row.FieldSlotIndex,
	}
}

func eventToRow(e matchevent.Event) matchEventTableModel {
	return matchEventTableModel{
		ID:                 e.ID,
		MatchID:            e.MatchID,
		Type:               string(e.Type),
		PlayerID:           e.PlayerID,
		Quarter:            e.Quarter,
		OccurredAt:         e.Timestamp,
		GameSecond:         e.GameSecond,
		DisplayMinute:      e.DisplayMinute,
		DisplayExtraMinute: e.DisplayExtraMinute,
		OwnGoal:            e.OwnGoal,
		CreatedAt:          e.CreatedAt,
	}
}

func eventFromRow(row matchEventTableModel) matchevent.Event {
	return matchevent.Event{
		ID:                 row.ID,
		MatchID:            row.MatchID,
		Type:               matchevent.Type(row.Type),
		PlayerID:           row.PlayerID,
		Quarter:            row.Quarter,
		Timestamp:          row.OccurredAt.UTC(),
		GameSecond:         row.GameSecond,
		DisplayMinute:      row.DisplayMinute,
		DisplayExtraMinute: row.DisplayExtraMinute,
		OwnGoal:            row.OwnGoal,
		CreatedAt:          row.CreatedAt.UTC(),
	}
}

func coachFromRow(row coachTableModel) access.Coach {
	return access.Coach{
		ID:      row.ID,
		Name:    row.Name,
		Pin:     row.Pin,
		TeamIDs: append([]string(nil), row.TeamIDs...),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
