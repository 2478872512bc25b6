package access

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchday/internal/domain/match"
)

type Resolver struct {
	directory Directory
}

func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// ResolveCoach finds a coach of the match's team holding pin. The match's own
// coach PIN resolves to an anonymous coach.
func (r *Resolver) ResolveCoach(ctx context.Context, m match.Match, pin string) (Actor, bool, error) {
	if pin == "" {
		return Actor{}, false, nil
	}

	coach, ok, err := r.directory.FindCoachByPin(ctx, m.TeamID, pin)
	if err != nil {
		return Actor{}, false, fmt.Errorf("find coach by pin: %w", err)
	}
	if ok {
		return Actor{Kind: ActorCoach, ID: coach.ID, IsLead: IsMatchLead(m, coach.ID)}, true, nil
	}

	if pinEqual(m.CoachPin, pin) {
		return Actor{Kind: ActorCoach, IsLead: IsMatchLead(m, "")}, true, nil
	}

	return Actor{}, false, nil
}

func (r *Resolver) ResolveReferee(ctx context.Context, m match.Match, pin string) (Actor, bool, error) {
	if m.RefereeID == "" || pin == "" {
		return Actor{}, false, nil
	}

	referee, ok, err := r.directory.GetReferee(ctx, m.RefereeID)
	if err != nil {
		return Actor{}, false, fmt.Errorf("get referee: %w", err)
	}
	if !ok || !pinEqual(referee.Pin, pin) {
		return Actor{}, false, nil
	}

	return Actor{Kind: ActorReferee, ID: referee.ID}, true, nil
}

// Resolve tries coach resolution first and falls back to the referee.
func (r *Resolver) Resolve(ctx context.Context, m match.Match, pin string) (Actor, error) {
	actor, ok, err := r.ResolveCoach(ctx, m, pin)
	if err != nil {
		return Actor{}, err
	}
	if ok {
		return actor, nil
	}

	actor, ok, err = r.ResolveReferee(ctx, m, pin)
	if err != nil {
		return Actor{}, err
	}
	if ok {
		return actor, nil
	}

	return Actor{Kind: ActorUnauthorized}, nil
}

// Authorize resolves pin and applies policy, failing with ErrInvalidMatchOrPIN.
func (r *Resolver) Authorize(ctx context.Context, m match.Match, pin string, policy Policy) (Actor, error) {
	actor, err := r.Resolve(ctx, m, pin)
	if err != nil {
		return Actor{}, err
	}
	if !Permits(actor, m, policy) {
		return Actor{}, ErrInvalidMatchOrPIN
	}
	return actor, nil
}

// IsMatchLead is true for the recorded lead or for anyone while no lead is set.
func IsMatchLead(m match.Match, coachID string) bool {
	return m.LeadCoachID == "" || m.LeadCoachID == coachID
}

func Permits(actor Actor, m match.Match, policy Policy) bool {
	switch actor.Kind {
	case ActorReferee:
		return policy != PolicyAnyCoach
	case ActorCoach:
		if policy == PolicyCoachLead && m.InProgress() {
			return actor.IsLead
		}
		return true
	default:
		return false
	}
}
