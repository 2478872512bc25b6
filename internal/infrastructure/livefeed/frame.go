package livefeed

import (
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const frameTypeSnapshot = "match.snapshot"

type clockFrame struct {
	GameSecond         int    `json:"game_second"`
	DisplayMinute      int    `json:"display_minute"`
	DisplayExtraMinute *int   `json:"display_extra_minute,omitempty"`
	Display            string `json:"display"`
	Paused             bool   `json:"paused"`
}

type eventFrame struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	PlayerID           string    `json:"player_id,omitempty"`
	Quarter            int       `json:"quarter"`
	GameSecond         int       `json:"game_second"`
	DisplayMinute      int       `json:"display_minute"`
	DisplayExtraMinute *int      `json:"display_extra_minute,omitempty"`
	OwnGoal            bool      `json:"own_goal,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

type matchFrame struct {
	Type           string       `json:"type"`
	Code           string       `json:"code"`
	Opponent       string       `json:"opponent"`
	IsHome         bool         `json:"is_home"`
	Status         string       `json:"status"`
	CurrentQuarter int          `json:"current_quarter"`
	QuarterCount   int          `json:"quarter_count"`
	HomeScore      int          `json:"home_score"`
	AwayScore      int          `json:"away_score"`
	Clock          clockFrame   `json:"clock"`
	Events         []eventFrame `json:"events"`
	Revision       int64        `json:"revision"`
	AsOf           time.Time    `json:"as_of"`
}

func newMatchFrame(view usecase.PublicMatch) matchFrame {
	events := make([]eventFrame, 0, len(view.Events))
	for _, e := range view.Events {
		events = append(events, newEventFrame(e))
	}

	return matchFrame{
		Type:           frameTypeSnapshot,
		Code:           view.Code,
		Opponent:       view.Opponent,
		IsHome:         view.IsHome,
		Status:         string(view.Status),
		CurrentQuarter: view.CurrentQuarter,
		QuarterCount:   view.QuarterCount,
		HomeScore:      view.HomeScore,
		AwayScore:      view.AwayScore,
		Clock: clockFrame{
			GameSecond:         view.GameTime.GameSecond,
			DisplayMinute:      view.GameTime.DisplayMinute,
			DisplayExtraMinute: view.GameTime.DisplayExtraMinute,
			Display:            view.GameTime.String(),
			Paused:             view.Paused,
		},
		Events:   events,
		Revision: view.Revision,
		AsOf:     view.AsOf.UTC(),
	}
}

func newEventFrame(e matchevent.Event) eventFrame {
	return eventFrame{
		ID:                 e.ID,
		Type:               string(e.Type),
		PlayerID:           e.PlayerID,
		Quarter:            e.Quarter,
		GameSecond:         e.GameSecond,
		DisplayMinute:      e.DisplayMinute,
		DisplayExtraMinute: e.DisplayExtraMinute,
		OwnGoal:            e.OwnGoal,
		Timestamp:          e.Timestamp.UTC(),
	}
}

// encodeFrame returns a frame payload that the caller owns.
func encodeFrame(view usecase.PublicMatch) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(newMatchFrame(view)); err != nil {
		return nil, crerr.Wrapf(err, "encode live frame code=%s", view.Code)
	}
	return append([]byte(nil), buf.B...), nil
}
