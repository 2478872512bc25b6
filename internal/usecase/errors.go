package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday/internal/domain/access"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidTransition     = errors.New("invalid state transition")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

var usecaseSentinels = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrUnauthorized,
	ErrInvalidTransition,
	ErrConflict,
	ErrDependencyUnavailable,
}

// classifyError maps domain failures onto usecase sentinels. Anything the
// domain does not recognise came from the store and is safe to retry.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range usecaseSentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	switch {
	case errors.Is(err, access.ErrInvalidMatchOrPIN):
		return fmt.Errorf("%w: %w", ErrUnauthorized, access.ErrInvalidMatchOrPIN)
	case errors.Is(err, match.ErrInvalidTransition):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, match.ErrPlayerNotInMatch):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, match.ErrNoGoalToUndo),
		errors.Is(err, match.ErrLeadClaimed),
		errors.Is(err, matchplayer.ErrSessionOpen):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, match.ErrInvalidMatch),
		errors.Is(err, matchplayer.ErrNotOnField),
		errors.Is(err, matchplayer.ErrAlreadyOnField),
		errors.Is(err, matchplayer.ErrSamePlayer),
		errors.Is(err, matchplayer.ErrKeeperOffField):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
	}
}
