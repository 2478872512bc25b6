package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
)

var (
	errReadOnly      = errors.New("write in read-only transaction")
	errDuplicateRow  = errors.New("duplicate row")
	errMatchNotFound = errors.New("match not found")
)

// MatchStore keeps matches in process memory. Writers are serialized by one
// lock and see their own staged writes until commit.
type MatchStore struct {
	mu      sync.RWMutex
	matches map[string]match.Match
	codes   map[string]string
	players map[string][]matchplayer.MatchPlayer
	events  map[string][]matchevent.Event
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		matches: make(map[string]match.Match),
		codes:   make(map[string]string),
		players: make(map[string][]matchplayer.MatchPlayer),
		events:  make(map[string][]matchevent.Event),
	}
}

func (s *MatchStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx match.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newMatchTx(s, false)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (s *MatchStore) View(ctx context.Context, fn func(ctx context.Context, tx match.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, newMatchTx(s, true))
}

type matchTx struct {
	store    *MatchStore
	readOnly bool
	matches  map[string]match.Match
	players  map[string][]matchplayer.MatchPlayer
	events   map[string][]matchevent.Event
}

func newMatchTx(store *MatchStore, readOnly bool) *matchTx {
	return &matchTx{
		store:    store,
		readOnly: readOnly,
		matches:  make(map[string]match.Match),
		players:  make(map[string][]matchplayer.MatchPlayer),
		events:   make(map[string][]matchevent.Event),
	}
}

func (t *matchTx) GetMatch(_ context.Context, matchID string) (match.Match, bool, error) {
	item, ok := t.match(matchID)
	return item, ok, nil
}

func (t *matchTx) GetMatchByCode(_ context.Context, code string) (match.Match, bool, error) {
	for _, item := range t.matches {
		if item.PublicCode == code {
			return item, true, nil
		}
	}
	matchID, ok := t.store.codes[code]
	if !ok {
		return match.Match{}, false, nil
	}
	item, ok := t.match(matchID)
	return item, ok, nil
}

func (t *matchTx) ListPlayers(_ context.Context, matchID string) ([]matchplayer.MatchPlayer, error) {
	return matchplayer.Clone(t.playerRows(matchID)), nil
}

func (t *matchTx) ListEvents(_ context.Context, matchID string) ([]matchevent.Event, error) {
	return cloneEvents(t.eventRows(matchID)), nil
}

func (t *matchTx) InsertMatch(_ context.Context, m match.Match) error {
	if t.readOnly {
		return errReadOnly
	}
	if _, exists := t.match(m.ID); exists {
		return fmt.Errorf("%w: match %s", errDuplicateRow, m.ID)
	}
	if _, exists := t.store.codes[m.PublicCode]; exists {
		return fmt.Errorf("%w: public code %s", errDuplicateRow, m.PublicCode)
	}
	t.matches[m.ID] = m
	return nil
}

func (t *matchTx) UpdateMatch(_ context.Context, m match.Match) error {
	if t.readOnly {
		return errReadOnly
	}
	if _, exists := t.match(m.ID); !exists {
		return fmt.Errorf("%w: %s", errMatchNotFound, m.ID)
	}
	t.matches[m.ID] = m
	return nil
}

func (t *matchTx) InsertPlayers(_ context.Context, players []matchplayer.MatchPlayer) error {
	if t.readOnly {
		return errReadOnly
	}
	for _, p := range players {
		rows := matchplayer.Clone(t.playerRows(p.MatchID))
		if matchplayer.FindByPlayerID(rows, p.PlayerID) >= 0 {
			return fmt.Errorf("%w: player %s in match %s", errDuplicateRow, p.PlayerID, p.MatchID)
		}
		t.players[p.MatchID] = append(rows, matchplayer.Clone([]matchplayer.MatchPlayer{p})...)
	}
	return nil
}

func (t *matchTx) UpdatePlayers(_ context.Context, players []matchplayer.MatchPlayer) error {
	if t.readOnly {
		return errReadOnly
	}
	for _, p := range players {
		rows := matchplayer.Clone(t.playerRows(p.MatchID))
		idx := matchplayer.FindByPlayerID(rows, p.PlayerID)
		if idx < 0 {
			return fmt.Errorf("%w: player %s", match.ErrPlayerNotInMatch, p.PlayerID)
		}
		rows[idx] = matchplayer.Clone([]matchplayer.MatchPlayer{p})[0]
		t.players[p.MatchID] = rows
	}
	return nil
}

func (t *matchTx) InsertEvents(_ context.Context, events []matchevent.Event) error {
	if t.readOnly {
		return errReadOnly
	}
	for _, e := range events {
		rows := cloneEvents(t.eventRows(e.MatchID))
		t.events[e.MatchID] = append(rows, cloneEvents([]matchevent.Event{e})...)
	}
	return nil
}

func (t *matchTx) DeleteEvents(_ context.Context, matchID string, eventIDs []string) error {
	if t.readOnly {
		return errReadOnly
	}
	drop := make(map[string]struct{}, len(eventIDs))
	for _, eventID := range eventIDs {
		drop[eventID] = struct{}{}
	}

	rows := t.eventRows(matchID)
	kept := make([]matchevent.Event, 0, len(rows))
	for _, e := range rows {
		if _, ok := drop[e.ID]; ok {
			continue
		}
		kept = append(kept, e)
	}
	t.events[matchID] = cloneEvents(kept)
	return nil
}

func (t *matchTx) match(matchID string) (match.Match, bool) {
	if item, ok := t.matches[matchID]; ok {
		return item, true
	}
	item, ok := t.store.matches[matchID]
	return item, ok
}

func (t *matchTx) playerRows(matchID string) []matchplayer.MatchPlayer {
	if rows, ok := t.players[matchID]; ok {
		return rows
	}
	return t.store.players[matchID]
}

func (t *matchTx) eventRows(matchID string) []matchevent.Event {
	if rows, ok := t.events[matchID]; ok {
		return rows
	}
	return t.store.events[matchID]
}

func (t *matchTx) commit() {
	for matchID, item := range t.matches {
		if prev, ok := t.store.matches[matchID]; ok && prev.PublicCode != item.PublicCode {
			delete(t.store.codes, prev.PublicCode)
		}
		t.store.matches[matchID] = item
		if item.PublicCode != "" {
			t.store.codes[item.PublicCode] = matchID
		}
	}
	for matchID, rows := range t.players {
		t.store.players[matchID] = rows
	}
	for matchID, rows := range t.events {
		t.store.events[matchID] = rows
	}
}

func cloneEvents(events []matchevent.Event) []matchevent.Event {
	out := make([]matchevent.Event, len(events))
	for i, e := range events {
		out[i] = e
		if e.DisplayExtraMinute != nil {
			extra := *e.DisplayExtraMinute
			out[i].DisplayExtraMinute = &extra
		}
	}
	return out
}
