package match

import (
	"context"

	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

// Tx is a read-your-writes view of the store for the duration of one operation.
type Tx interface {
	GetMatch(ctx context.Context, matchID string) (Match, bool, error)
	GetMatchByCode(ctx context.Context, code string) (Match, bool, error)
	ListPlayers(ctx context.Context, matchID string) ([]matchplayer.MatchPlayer, error)
	ListEvents(ctx context.Context, matchID string) ([]matchevent.Event, error)

	InsertMatch(ctx context.Context, m Match) error
	UpdateMatch(ctx context.Context, m Match) error
	InsertPlayers(ctx context.Context, players []matchplayer.MatchPlayer) error
	UpdatePlayers(ctx context.Context, players []matchplayer.MatchPlayer) error
	InsertEvents(ctx context.Context, events []matchevent.Event) error
	DeleteEvents(ctx context.Context, matchID string, eventIDs []string) error
}

// Store runs each operation as one all-or-nothing unit. Errors returned by fn
// roll the unit back and are passed through unchanged.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
