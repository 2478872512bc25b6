package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/access"
)

// Directory resolves coaches and referees from a fixed roster.
type Directory struct {
	mu       sync.RWMutex
	coaches  []access.Coach
	referees map[string]access.Referee
}

func NewDirectory(coaches []access.Coach, referees []access.Referee) *Directory {
	byID := make(map[string]access.Referee, len(referees))
	for _, item := range referees {
		byID[item.ID] = item
	}

	return &Directory{
		coaches:  append([]access.Coach(nil), coaches...),
		referees: byID,
	}
}

func (d *Directory) FindCoachByPin(_ context.Context, teamID, pin string) (access.Coach, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, item := range d.coaches {
		if item.Pin == pin && slices.Contains(item.TeamIDs, teamID) {
			return cloneCoach(item), true, nil
		}
	}

	return access.Coach{}, false, nil
}

func (d *Directory) GetReferee(_ context.Context, refereeID string) (access.Referee, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	item, ok := d.referees[refereeID]
	return item, ok, nil
}

func cloneCoach(item access.Coach) access.Coach {
	copied := item
	copied.TeamIDs = append([]string(nil), item.TeamIDs...)
	return copied
}
