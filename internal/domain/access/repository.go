package access

import "context"

// Directory resolves coach/team membership and referee records.
type Directory interface {
	FindCoachByPin(ctx context.Context, teamID, pin string) (Coach, bool, error)
	GetReferee(ctx context.Context, refereeID string) (Referee, bool, error)
}
