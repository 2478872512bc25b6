package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/access"
	"github.com/riskibarqy/matchday/internal/domain/advisor"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/matchplayer"
	"github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const (
	publicCodeLength   = 6
	publicCodeAttempts = 5
)

// LiveFeed receives the spectator view after every committed change.
type LiveFeed interface {
	Publish(ctx context.Context, view PublicMatch)
}

type MatchPlayerInput struct {
	PlayerID    string
	Name        string
	ShirtNumber int
	OnField     bool
	IsKeeper    bool
}

type CreateMatchInput struct {
	TeamID       string
	Pin          string
	Opponent     string
	IsHome       bool
	QuarterCount int
	CoachPin     string
	RefereeID    string
	Players      []MatchPlayerInput
}

type AddGoalInput struct {
	MatchID        string
	Pin            string
	PlayerID       string
	AssistPlayerID string
	IsOwnGoal      bool
	IsOpponentGoal bool
}

type UndoGoalResult struct {
	State   MatchState
	Removed []matchevent.Event
}

type MatchService struct {
	store       match.Store
	resolver    *access.Resolver
	idGen       id.Generator
	feed        LiveFeed
	logger      *logging.Logger
	now         func() time.Time
	publicReads resilience.Group[PublicMatch]
}

func NewMatchService(
	store match.Store,
	directory access.Directory,
	idGen id.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		store:    store,
		resolver: access.NewResolver(directory),
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *MatchService) SetLiveFeed(feed LiveFeed) {
	s.feed = feed
}

// mutation applies one operation to the locked aggregate and returns the
// events to append.
type mutation func(ctx context.Context, tx match.Tx, agg *match.Aggregate, actor access.Actor, now time.Time) ([]matchevent.Event, error)

func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (MatchState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch", attribute.String("team.id", input.TeamID))
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Opponent = strings.TrimSpace(input.Opponent)
	input.RefereeID = strings.TrimSpace(input.RefereeID)
	if input.TeamID == "" {
		return MatchState{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if input.Opponent == "" {
		return MatchState{}, fmt.Errorf("%w: opponent is required", ErrInvalidInput)
	}
	if !match.ValidQuarterCount(input.QuarterCount) {
		return MatchState{}, fmt.Errorf("%w: quarter_count must be 2 or 4", ErrInvalidInput)
	}
	if err := validateRoster(input.Players); err != nil {
		return MatchState{}, err
	}

	team := match.Match{TeamID: input.TeamID, Status: match.StatusScheduled}
	if _, err := s.resolver.Authorize(ctx, team, strings.TrimSpace(input.Pin), access.PolicyAnyCoach); err != nil {
		return MatchState{}, classifyError("create match", err)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return MatchState{}, fmt.Errorf("%w: generate match id: %w", ErrDependencyUnavailable, err)
	}

	now := s.now()
	item := match.Match{
		ID:             matchID,
		TeamID:         input.TeamID,
		Opponent:       input.Opponent,
		IsHome:         input.IsHome,
		Status:         match.StatusScheduled,
		CurrentQuarter: 1,
		QuarterCount:   input.QuarterCount,
		CoachPin:       strings.TrimSpace(input.CoachPin),
		RefereeID:      input.RefereeID,
		Revision:       1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	players := make([]matchplayer.MatchPlayer, 0, len(input.Players))
	for _, p := range input.Players {
		rowID, err := s.idGen.NewID()
		if err != nil {
			return MatchState{}, fmt.Errorf("%w: generate match player id: %w", ErrDependencyUnavailable, err)
		}
		players = append(players, matchplayer.MatchPlayer{
			ID:          rowID,
			MatchID:     matchID,
			PlayerID:    strings.TrimSpace(p.PlayerID),
			Name:        strings.TrimSpace(p.Name),
			ShirtNumber: p.ShirtNumber,
			OnField:     p.OnField,
			IsKeeper:    p.IsKeeper,
		})
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx match.Tx) error {
		code, err := s.newPublicCode(ctx, tx)
		if err != nil {
			return err
		}
		item.PublicCode = code
		if err := item.Validate(); err != nil {
			return err
		}
		if err := tx.InsertMatch(ctx, item); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		if len(players) > 0 {
			if err := tx.InsertPlayers(ctx, players); err != nil {
				return fmt.Errorf("insert match players: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return MatchState{}, s.fail(ctx, "create match", item.ID, err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", item.ID,
		"team_id", item.TeamID,
		"public_code", item.PublicCode,
		"quarter_count", item.QuarterCount,
		"players", len(players),
	)
	s.publish(ctx, item, nil, now)
	return buildMatchState(item, now), nil
}

func (s *MatchService) OpenLineup(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "open lineup", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return nil, match.OpenLineup(agg, now)
		})
}

func (s *MatchService) Start(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "start", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return match.Start(agg, now)
		})
}

func (s *MatchService) Pause(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "pause", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return nil, match.Pause(agg, now)
		})
}

func (s *MatchService) Resume(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "resume", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return nil, match.Resume(agg, now)
		})
}

func (s *MatchService) NextQuarter(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "next quarter", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return match.NextQuarter(agg, now)
		})
}

func (s *MatchService) ResumeFromHalftime(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "resume from halftime", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return match.ResumeFromHalftime(agg, now)
		})
}

func (s *MatchService) Substitute(ctx context.Context, matchID, pin, playerOutID, playerInID string) (MatchState, error) {
	playerOutID = strings.TrimSpace(playerOutID)
	playerInID = strings.TrimSpace(playerInID)
	if playerOutID == "" || playerInID == "" {
		return MatchState{}, fmt.Errorf("%w: player_out_id and player_in_id are required", ErrInvalidInput)
	}

	return s.mutate(ctx, "substitute", matchID, pin, access.PolicyAnyCoach,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return match.Substitute(agg, playerOutID, playerInID, now)
		})
}

func (s *MatchService) SetPlayerOnField(ctx context.Context, matchID, pin, playerID string, onField bool) (MatchState, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return MatchState{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}

	return s.mutate(ctx, "set on field", matchID, pin, access.PolicyAnyCoach,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return nil, match.SetOnField(agg, playerID, onField, now)
		})
}

func (s *MatchService) SetKeeper(ctx context.Context, matchID, pin, playerID string) (MatchState, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return MatchState{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}

	return s.mutate(ctx, "set keeper", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return nil, match.SetKeeper(agg, playerID, now)
		})
}

func (s *MatchService) AddGoal(ctx context.Context, input AddGoalInput) (MatchState, error) {
	goal := match.GoalInput{
		PlayerID:       input.PlayerID,
		AssistPlayerID: input.AssistPlayerID,
		IsOwnGoal:      input.IsOwnGoal,
		IsOpponentGoal: input.IsOpponentGoal,
	}

	return s.mutate(ctx, "add goal", input.MatchID, input.Pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return match.AddGoal(agg, goal, now)
		})
}

// UndoLastGoal removes the latest goal event, its linked assist and the score
// it produced.
func (s *MatchService) UndoLastGoal(ctx context.Context, matchID, pin string) (UndoGoalResult, error) {
	var removed []matchevent.Event
	state, err := s.mutate(ctx, "undo last goal", matchID, pin, access.PolicyCoachLead,
		func(ctx context.Context, tx match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			events, err := tx.ListEvents(ctx, agg.Match.ID)
			if err != nil {
				return nil, fmt.Errorf("list match events: %w", err)
			}
			removed, err = match.UndoLastGoal(&agg.Match, events, now)
			if err != nil {
				return nil, err
			}

			ids := make([]string, 0, len(removed))
			for _, e := range removed {
				ids = append(ids, e.ID)
			}
			if err := tx.DeleteEvents(ctx, agg.Match.ID, ids); err != nil {
				return nil, fmt.Errorf("delete goal events: %w", err)
			}
			return nil, nil
		})
	if err != nil {
		return UndoGoalResult{}, err
	}

	return UndoGoalResult{State: state, Removed: removed}, nil
}

func (s *MatchService) AdjustScore(ctx context.Context, matchID, pin, side string, delta int) (MatchState, error) {
	scoreSide := match.Side(strings.ToLower(strings.TrimSpace(side)))

	return s.mutate(ctx, "adjust score", matchID, pin, access.PolicyCoachLead,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, _ access.Actor, now time.Time) ([]matchevent.Event, error) {
			return nil, match.AdjustScore(&agg.Match, scoreSide, delta, now)
		})
}

func (s *MatchService) ClaimLead(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "claim lead", matchID, pin, access.PolicyAnyCoach,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, actor access.Actor, now time.Time) ([]matchevent.Event, error) {
			if actor.ID == "" {
				return nil, fmt.Errorf("%w: the match lead must be a registered coach", ErrInvalidInput)
			}
			return nil, match.ClaimLead(&agg.Match, actor.ID, now)
		})
}

func (s *MatchService) ReleaseLead(ctx context.Context, matchID, pin string) (MatchState, error) {
	return s.mutate(ctx, "release lead", matchID, pin, access.PolicyAnyCoach,
		func(_ context.Context, _ match.Tx, agg *match.Aggregate, actor access.Actor, now time.Time) ([]matchevent.Event, error) {
			if actor.ID == "" {
				return nil, fmt.Errorf("%w: the match lead must be a registered coach", ErrInvalidInput)
			}
			return nil, match.ReleaseLead(&agg.Match, actor.ID, now)
		})
}

func (s *MatchService) GetMatchState(ctx context.Context, matchID, pin string) (MatchState, error) {
	var out MatchState
	err := s.read(ctx, "get match state", matchID, pin,
		func(_ context.Context, _ match.Tx, m match.Match, now time.Time) error {
			out = buildMatchState(m, now)
			return nil
		})
	return out, err
}

func (s *MatchService) GetPlayingTime(ctx context.Context, matchID, pin string) (PlayingTime, error) {
	var out PlayingTime
	err := s.read(ctx, "get playing time", matchID, pin,
		func(ctx context.Context, tx match.Tx, m match.Match, now time.Time) error {
			players, err := tx.ListPlayers(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list match players: %w", err)
			}
			out = buildPlayingTime(m, players, now)
			return nil
		})
	return out, err
}

func (s *MatchService) GetSuggestedSubstitutions(ctx context.Context, matchID, pin string) (SuggestedSubstitutions, error) {
	var out SuggestedSubstitutions
	err := s.read(ctx, "get suggested substitutions", matchID, pin,
		func(ctx context.Context, tx match.Tx, m match.Match, now time.Time) error {
			players, err := tx.ListPlayers(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list match players: %w", err)
			}
			out = advisor.Suggest(players, now, m.ClockRunning())
			return nil
		})
	return out, err
}

func (s *MatchService) GetTimeline(ctx context.Context, matchID, pin string) ([]matchevent.Event, error) {
	var out []matchevent.Event
	err := s.read(ctx, "get timeline", matchID, pin,
		func(ctx context.Context, tx match.Tx, m match.Match, _ time.Time) error {
			events, err := tx.ListEvents(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list match events: %w", err)
			}
			matchevent.SortByTimestamp(events)
			out = events
			return nil
		})
	return out, err
}

// GetPublicMatch serves spectators by join code without a PIN.
func (s *MatchService) GetPublicMatch(ctx context.Context, code string) (PublicMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetPublicMatch", attribute.String("match.code", code))
	defer span.End()

	code = normalizePublicCode(code)
	if code == "" {
		return PublicMatch{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	// Spectators poll the same code together; one read serves them all, so it
	// must not end with whichever caller happened to start it.
	shared := context.WithoutCancel(ctx)
	out, err, _ := s.publicReads.Do(code, func() (PublicMatch, error) {
		return s.loadPublicMatch(shared, code)
	})
	if err != nil {
		return PublicMatch{}, s.fail(ctx, "get public match", code, err)
	}
	return out, nil
}

func (s *MatchService) loadPublicMatch(ctx context.Context, code string) (PublicMatch, error) {
	now := s.now()
	var out PublicMatch
	err := s.store.View(ctx, func(ctx context.Context, tx match.Tx) error {
		m, ok, err := tx.GetMatchByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("get match by code: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: match code=%s", ErrNotFound, code)
		}
		events, err := tx.ListEvents(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list match events: %w", err)
		}
		out = buildPublicMatch(m, events, now)
		return nil
	})
	return out, err
}

func (s *MatchService) mutate(ctx context.Context, op, matchID, pin string, policy access.Policy, fn mutation) (MatchState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService."+op, attribute.String("match.id", matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchState{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	now := s.now()
	var (
		agg      match.Aggregate
		appended []matchevent.Event
		timeline []matchevent.Event
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx match.Tx) error {
		m, actor, err := s.authorize(ctx, tx, matchID, pin, policy)
		if err != nil {
			return err
		}
		players, err := tx.ListPlayers(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list match players: %w", err)
		}

		agg = match.Aggregate{Match: m, Players: players}
		appended, err = fn(ctx, tx, &agg, actor, now)
		if err != nil {
			return err
		}
		if err := s.stampEvents(appended, now); err != nil {
			return err
		}

		agg.Match.Revision++
		if err := tx.UpdateMatch(ctx, agg.Match); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if len(agg.Players) > 0 {
			if err := tx.UpdatePlayers(ctx, agg.Players); err != nil {
				return fmt.Errorf("update match players: %w", err)
			}
		}
		if len(appended) > 0 {
			if err := tx.InsertEvents(ctx, appended); err != nil {
				return fmt.Errorf("insert match events: %w", err)
			}
		}

		if s.feed != nil {
			timeline, err = tx.ListEvents(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("list match events: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return MatchState{}, s.fail(ctx, op, matchID, err)
	}

	s.logger.InfoContext(ctx, "match updated",
		"op", op,
		"match_id", agg.Match.ID,
		"status", agg.Match.Status,
		"quarter", agg.Match.CurrentQuarter,
		"paused", agg.Match.IsPaused(),
		"events", len(appended),
	)
	s.publish(ctx, agg.Match, timeline, now)
	return buildMatchState(agg.Match, now), nil
}

func (s *MatchService) read(ctx context.Context, op, matchID, pin string, fn func(ctx context.Context, tx match.Tx, m match.Match, now time.Time) error) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService."+op, attribute.String("match.id", matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	now := s.now()
	err := s.store.View(ctx, func(ctx context.Context, tx match.Tx) error {
		m, _, err := s.authorize(ctx, tx, matchID, pin, access.PolicyCoachOrReferee)
		if err != nil {
			return err
		}
		return fn(ctx, tx, m, now)
	})
	if err != nil {
		return s.fail(ctx, op, matchID, err)
	}
	return nil
}

// authorize hides whether the match or the PIN was wrong.
func (s *MatchService) authorize(ctx context.Context, tx match.Tx, matchID, pin string, policy access.Policy) (match.Match, access.Actor, error) {
	m, ok, err := tx.GetMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, access.Actor{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return match.Match{}, access.Actor{}, access.ErrInvalidMatchOrPIN
	}

	actor, err := s.resolver.Authorize(ctx, m, strings.TrimSpace(pin), policy)
	if err != nil {
		return match.Match{}, access.Actor{}, err
	}
	return m, actor, nil
}

func (s *MatchService) stampEvents(events []matchevent.Event, now time.Time) error {
	for i := range events {
		eventID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("%w: generate event id: %w", ErrDependencyUnavailable, err)
		}
		events[i].ID = eventID
		events[i].CreatedAt = now
	}
	return nil
}

func (s *MatchService) newPublicCode(ctx context.Context, tx match.Tx) (string, error) {
	for range publicCodeAttempts {
		code, err := s.idGen.NewCode(publicCodeLength)
		if err != nil {
			return "", fmt.Errorf("%w: generate public code: %w", ErrDependencyUnavailable, err)
		}

		_, exists, err := tx.GetMatchByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("get match by code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique public code", ErrConflict)
}

func (s *MatchService) fail(ctx context.Context, op, ref string, err error) error {
	err = classifyError(op, err)
	if errors.Is(err, ErrDependencyUnavailable) {
		s.logger.ErrorContext(ctx, "match operation failed", "op", op, "ref", ref, "error", err)
	} else {
		s.logger.DebugContext(ctx, "match operation rejected", "op", op, "ref", ref, "error", err)
	}
	return err
}

func (s *MatchService) publish(ctx context.Context, m match.Match, events []matchevent.Event, now time.Time) {
	if s.feed == nil || m.PublicCode == "" {
		return
	}
	s.feed.Publish(ctx, buildPublicMatch(m, events, now))
}

func validateRoster(players []MatchPlayerInput) error {
	seen := make(map[string]struct{}, len(players))
	keepers := 0
	for _, p := range players {
		playerID := strings.TrimSpace(p.PlayerID)
		if playerID == "" {
			return fmt.Errorf("%w: player_id is required for every player", ErrInvalidInput)
		}
		if _, ok := seen[playerID]; ok {
			return fmt.Errorf("%w: duplicate player %s", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}

		if p.IsKeeper {
			if !p.OnField {
				return fmt.Errorf("%w: keeper %s must be on the field", ErrInvalidInput, playerID)
			}
			keepers++
		}
	}
	if keepers > 1 {
		return fmt.Errorf("%w: at most one keeper may be on the field", ErrInvalidInput)
	}
	return nil
}

func normalizePublicCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
