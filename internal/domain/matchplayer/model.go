package matchplayer

import "time"

// MatchPlayer is one roster player's participation in one match.
type MatchPlayer struct {
	ID             string
	MatchID        string
	PlayerID       string
	Name           string
	ShirtNumber    int
	OnField        bool
	IsKeeper       bool
	LastSubbedInAt *time.Time
	MinutesPlayed  float64
	FieldSlotIndex *int
}

func (p MatchPlayer) SessionOpen() bool {
	return p.LastSubbedInAt != nil
}

// FindByPlayerID returns the index of the row for playerID, or -1.
func FindByPlayerID(players []MatchPlayer, playerID string) int {
	for i := range players {
		if players[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

func Clone(players []MatchPlayer) []MatchPlayer {
	out := make([]MatchPlayer, len(players))
	for i, p := range players {
		out[i] = p
		if p.LastSubbedInAt != nil {
			at := *p.LastSubbedInAt
			out[i].LastSubbedInAt = &at
		}
		if p.FieldSlotIndex != nil {
			slot := *p.FieldSlotIndex
			out[i].FieldSlotIndex = &slot
		}
	}
	return out
}
