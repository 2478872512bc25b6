package matchevent

import (
	"sort"
	"time"
)

// Type names the kind of entry in a match timeline.
type Type string

const (
	TypeGoal         Type = "goal"
	TypeAssist       Type = "assist"
	TypeOpponentGoal Type = "opponent_goal"
	TypeSubIn        Type = "sub_in"
	TypeSubOut       Type = "sub_out"
	TypeQuarterStart Type = "quarter_start"
	TypeQuarterEnd   Type = "quarter_end"
)

// AssistLinkWindow is how close an assist must be to its goal to be removed with it.
const AssistLinkWindow = time.Second

// Event is an append-only timeline entry. Game time fields are computed when
// the event is written and never recomputed.
type Event struct {
	ID                 string
	MatchID            string
	Type               Type
	PlayerID           string
	Quarter            int
	Timestamp          time.Time
	GameSecond         int
	DisplayMinute      int
	DisplayExtraMinute *int
	OwnGoal            bool
	CreatedAt          time.Time
}

func (e Event) IsGoal() bool {
	return e.Type == TypeGoal || e.Type == TypeOpponentGoal
}

// SortByTimestamp orders events oldest first, insertion order breaking ties.
func SortByTimestamp(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}

// LastGoal returns the most recent goal and, when one was recorded within
// AssistLinkWindow of it, the linked assist.
func LastGoal(events []Event) (goal Event, assist *Event, ok bool) {
	goalIdx := -1
	for i, e := range events {
		if !e.IsGoal() {
			continue
		}
		if goalIdx < 0 || !e.Timestamp.Before(events[goalIdx].Timestamp) {
			goalIdx = i
		}
	}
	if goalIdx < 0 {
		return Event{}, nil, false
	}
	goal = events[goalIdx]
	if goal.Type != TypeGoal {
		return goal, nil, true
	}

	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Type != TypeAssist {
			continue
		}
		gap := e.Timestamp.Sub(goal.Timestamp)
		if gap < 0 {
			gap = -gap
		}
		if gap <= AssistLinkWindow {
			linked := e
			return goal, &linked, true
		}
	}

	return goal, nil, true
}
