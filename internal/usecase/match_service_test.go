package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	pinDewi    = "1111"
	pinRaka    = "2222"
	pinReferee = "9090"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type sequenceIDs struct {
	n     int
	codes int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%06d", g.n), nil
}

func (g *sequenceIDs) NewCode(length int) (string, error) {
	g.codes++
	return fmt.Sprintf("K%0*d", length-1, g.codes), nil
}

type recordingFeed struct {
	views []PublicMatch
}

func (f *recordingFeed) Publish(_ context.Context, view PublicMatch) {
	f.views = append(f.views, view)
}

type failingStore struct {
	err error
}

func (s failingStore) WithinTx(context.Context, func(context.Context, match.Tx) error) error {
	return s.err
}

func (s failingStore) View(context.Context, func(context.Context, match.Tx) error) error {
	return s.err
}

func newTestMatchService(t *testing.T) (*MatchService, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	svc := NewMatchService(
		memory.NewMatchStore(),
		memory.NewDirectory(memory.SeedCoaches(), memory.SeedReferees()),
		&sequenceIDs{},
		logging.NewNop(),
	)
	svc.now = clock.Now
	return svc, clock
}

func createTestMatch(t *testing.T, svc *MatchService, quarterCount int) match.Match {
	t.Helper()

	state, err := svc.CreateMatch(t.Context(), CreateMatchInput{
		TeamID:       memory.TeamIDFalconsU11,
		Pin:          pinDewi,
		Opponent:     "Harbour Hawks",
		IsHome:       true,
		QuarterCount: quarterCount,
		RefereeID:    memory.RefereeIDBudi,
		Players: []MatchPlayerInput{
			{PlayerID: "p1", Name: "Ayu", ShirtNumber: 1, OnField: true, IsKeeper: true},
			{PlayerID: "p2", Name: "Bima", ShirtNumber: 7, OnField: true},
			{PlayerID: "p3", Name: "Citra", ShirtNumber: 9},
		},
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return state.Match
}

func minutesOf(t *testing.T, pt PlayingTime, playerID string) float64 {
	t.Helper()
	for _, p := range pt.Players {
		if p.Player.PlayerID == playerID {
			return p.LiveMinutes
		}
	}
	t.Fatalf("player %s missing from playing time", playerID)
	return 0
}

func TestMatchService_EndToEndQuarterBoundary(t *testing.T) {
	svc, clock := newTestMatchService(t)
	m := createTestMatch(t, svc, 4)

	if _, err := svc.Start(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.Advance(16 * time.Minute)
	state, err := svc.NextQuarter(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("next quarter: %v", err)
	}
	if state.Match.BankedOverrunSeconds != 60 {
		t.Fatalf("expected 60s banked, got %d", state.Match.BankedOverrunSeconds)
	}
	if state.Match.Status != match.StatusHalftime || state.Match.CurrentQuarter != 2 {
		t.Fatalf("unexpected state after quarter end: %s q%d", state.Match.Status, state.Match.CurrentQuarter)
	}

	clock.Advance(5 * time.Minute)
	resumeAt := clock.Now()
	state, err = svc.ResumeFromHalftime(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("resume from halftime: %v", err)
	}
	if state.Match.Status != match.StatusLive || !state.Match.QuarterStartedAt.Equal(resumeAt) {
		t.Fatalf("unexpected resumed state: %+v", state.Match)
	}

	clock.Advance(2 * time.Minute)
	state, err = svc.GetMatchState(t.Context(), m.ID, pinReferee)
	if err != nil {
		t.Fatalf("get match state: %v", err)
	}
	if state.GameTime.GameSecond != 1020 || state.GameTime.DisplayMinute != 17 {
		t.Fatalf("unexpected game time: %+v", state.GameTime)
	}

	timeline, err := svc.GetTimeline(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	wantTypes := []matchevent.Type{matchevent.TypeQuarterStart, matchevent.TypeQuarterEnd, matchevent.TypeQuarterStart}
	if len(timeline) != len(wantTypes) {
		t.Fatalf("unexpected timeline length: %d", len(timeline))
	}
	for i, want := range wantTypes {
		if timeline[i].Type != want {
			t.Fatalf("timeline[%d]: want %s got %s", i, want, timeline[i].Type)
		}
		if timeline[i].ID == "" {
			t.Fatalf("timeline[%d] has no id", i)
		}
	}
}

func TestMatchService_PlayingTimeAcrossPauseAndSubstitution(t *testing.T) {
	svc, clock := newTestMatchService(t)
	m := createTestMatch(t, svc, 4)

	if _, err := svc.Start(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(7 * time.Minute)
	if _, err := svc.Pause(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("pause: %v", err)
	}
	clock.Advance(3 * time.Minute)
	if _, err := svc.Resume(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("resume: %v", err)
	}
	clock.Advance(2 * time.Minute)
	if _, err := svc.Substitute(t.Context(), m.ID, pinRaka, "p2", "p3"); err != nil {
		t.Fatalf("substitute: %v", err)
	}

	pt, err := svc.GetPlayingTime(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("get playing time: %v", err)
	}
	if got := minutesOf(t, pt, "p2"); got != 9 {
		t.Fatalf("p2: expected 9 minutes, got %v", got)
	}
	if got := minutesOf(t, pt, "p1"); got != 9 {
		t.Fatalf("p1: expected 9 live minutes, got %v", got)
	}
	if got := minutesOf(t, pt, "p3"); got != 0 {
		t.Fatalf("p3: expected 0 minutes, got %v", got)
	}

	clock.Advance(time.Minute)
	pt, err = svc.GetPlayingTime(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("get playing time: %v", err)
	}
	if got := minutesOf(t, pt, "p3"); got != 1 {
		t.Fatalf("p3: expected 1 live minute, got %v", got)
	}
	if got := minutesOf(t, pt, "p2"); got != 9 {
		t.Fatalf("p2 must not accrue on the bench, got %v", got)
	}
}

func TestMatchService_AuthorizationBoundary(t *testing.T) {
	svc, _ := newTestMatchService(t)
	m := createTestMatch(t, svc, 4)

	if _, err := svc.ClaimLead(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("claim lead: %v", err)
	}
	if _, err := svc.ClaimLead(t.Context(), m.ID, pinRaka); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for second claim, got %v", err)
	}
	if _, err := svc.Start(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.Pause(t.Context(), m.ID, pinRaka); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-lead pause, got %v", err)
	}
	if _, err := svc.AdjustScore(t.Context(), m.ID, pinRaka, "team", 1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-lead score adjust, got %v", err)
	}

	if _, err := svc.Pause(t.Context(), m.ID, pinReferee); err != nil {
		t.Fatalf("referee pause: %v", err)
	}
	if _, err := svc.Resume(t.Context(), m.ID, pinReferee); err != nil {
		t.Fatalf("referee resume: %v", err)
	}
	state, err := svc.AdjustScore(t.Context(), m.ID, pinReferee, "opponent", 1)
	if err != nil {
		t.Fatalf("referee adjust score: %v", err)
	}
	if state.Match.AwayScore != 1 {
		t.Fatalf("expected away score 1, got %d", state.Match.AwayScore)
	}

	if _, err := svc.Substitute(t.Context(), m.ID, pinReferee, "p2", "p3"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("referee must not substitute, got %v", err)
	}
	if _, err := svc.GetPlayingTime(t.Context(), m.ID, "0000"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown pin, got %v", err)
	}
}

func TestMatchService_UnknownMatchLooksLikeBadPin(t *testing.T) {
	svc, _ := newTestMatchService(t)

	_, err := svc.Start(t.Context(), "missing", pinDewi)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMatchService_AddGoalThenUndoRestoresScore(t *testing.T) {
	svc, clock := newTestMatchService(t)
	m := createTestMatch(t, svc, 2)

	if _, err := svc.Start(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(4 * time.Minute)

	state, err := svc.AddGoal(t.Context(), AddGoalInput{MatchID: m.ID, Pin: pinDewi, PlayerID: "p2", AssistPlayerID: "p1"})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if state.Match.HomeScore != 1 {
		t.Fatalf("expected home score 1, got %d", state.Match.HomeScore)
	}

	result, err := svc.UndoLastGoal(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("undo last goal: %v", err)
	}
	if result.State.Match.HomeScore != 0 || result.State.Match.AwayScore != 0 {
		t.Fatalf("score not restored: %d-%d", result.State.Match.HomeScore, result.State.Match.AwayScore)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("expected goal and assist removed, got %d", len(result.Removed))
	}

	timeline, err := svc.GetTimeline(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	if len(timeline) != 1 || timeline[0].Type != matchevent.TypeQuarterStart {
		t.Fatalf("unexpected timeline after undo: %+v", timeline)
	}

	if _, err := svc.UndoLastGoal(t.Context(), m.ID, pinDewi); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict with nothing to undo, got %v", err)
	}
}

func TestMatchService_InvalidTransitionIncludesState(t *testing.T) {
	svc, _ := newTestMatchService(t)
	m := createTestMatch(t, svc, 4)

	_, err := svc.Pause(t.Context(), m.ID, pinDewi)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !strings.Contains(err.Error(), "scheduled") {
		t.Fatalf("error should name the current state: %v", err)
	}
}

func TestMatchService_StoreFailureIsRetryable(t *testing.T) {
	svc := NewMatchService(
		failingStore{err: errors.New("connection reset")},
		memory.NewDirectory(memory.SeedCoaches(), memory.SeedReferees()),
		&sequenceIDs{},
		logging.NewNop(),
	)

	_, err := svc.Start(t.Context(), "m1", pinDewi)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestMatchService_CreateMatchValidation(t *testing.T) {
	svc, _ := newTestMatchService(t)

	tests := []struct {
		name  string
		input CreateMatchInput
		want  error
	}{
		{
			name:  "odd quarter count",
			input: CreateMatchInput{TeamID: memory.TeamIDFalconsU11, Pin: pinDewi, Opponent: "Hawks", QuarterCount: 3},
			want:  ErrInvalidInput,
		},
		{
			name:  "missing opponent",
			input: CreateMatchInput{TeamID: memory.TeamIDFalconsU11, Pin: pinDewi, QuarterCount: 4},
			want:  ErrInvalidInput,
		},
		{
			name: "duplicate players",
			input: CreateMatchInput{TeamID: memory.TeamIDFalconsU11, Pin: pinDewi, Opponent: "Hawks", QuarterCount: 4,
				Players: []MatchPlayerInput{{PlayerID: "p1"}, {PlayerID: "p1"}}},
			want: ErrInvalidInput,
		},
		{
			name:  "coach of another team",
			input: CreateMatchInput{TeamID: memory.TeamIDOwlsU9, Pin: pinDewi, Opponent: "Hawks", QuarterCount: 4},
			want:  ErrUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateMatch(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMatchService_PublishesPublicView(t *testing.T) {
	svc, clock := newTestMatchService(t)
	feed := &recordingFeed{}
	svc.SetLiveFeed(feed)
	m := createTestMatch(t, svc, 4)

	if _, err := svc.Start(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := svc.AddGoal(t.Context(), AddGoalInput{MatchID: m.ID, Pin: pinDewi, IsOpponentGoal: true}); err != nil {
		t.Fatalf("add opponent goal: %v", err)
	}

	if len(feed.views) != 3 {
		t.Fatalf("expected 3 published views, got %d", len(feed.views))
	}
	last := feed.views[2]
	if last.Code != m.PublicCode || last.AwayScore != 1 || last.Status != match.StatusLive {
		t.Fatalf("unexpected public view: %+v", last)
	}
	if len(last.Events) != 2 {
		t.Fatalf("expected quarter start and opponent goal, got %d events", len(last.Events))
	}
	for i, view := range feed.views {
		if want := int64(i + 1); view.Revision != want {
			t.Fatalf("view %d: expected revision %d, got %d", i, want, view.Revision)
		}
	}

	public, err := svc.GetPublicMatch(t.Context(), strings.ToLower(m.PublicCode))
	if err != nil {
		t.Fatalf("get public match: %v", err)
	}
	if public.AwayScore != 1 || public.GameTime.DisplayMinute != 1 {
		t.Fatalf("unexpected public match: %+v", public)
	}

	if _, err := svc.GetPublicMatch(t.Context(), "NOPE00"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_PublicReadOutlivesCancelledCaller(t *testing.T) {
	svc, _ := newTestMatchService(t)
	m := createTestMatch(t, svc, 2)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	public, err := svc.GetPublicMatch(ctx, m.PublicCode)
	if err != nil {
		t.Fatalf("shared public read must not fail with the caller's cancellation: %v", err)
	}
	if public.Code != m.PublicCode || public.Revision != 1 {
		t.Fatalf("unexpected public match: %+v", public)
	}
}

func TestMatchService_SuggestionsAndPregameLineup(t *testing.T) {
	svc, clock := newTestMatchService(t)
	m := createTestMatch(t, svc, 4)

	if _, err := svc.SetPlayerOnField(t.Context(), m.ID, pinRaka, "p3", true); err != nil {
		t.Fatalf("set on field: %v", err)
	}
	if _, err := svc.SetPlayerOnField(t.Context(), m.ID, pinRaka, "p3", false); err != nil {
		t.Fatalf("set on bench: %v", err)
	}
	if _, err := svc.Start(t.Context(), m.ID, pinDewi); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.SetPlayerOnField(t.Context(), m.ID, pinDewi, "p3", true); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("lineup flags are pregame only, got %v", err)
	}

	clock.Advance(6 * time.Minute)
	report, err := svc.GetSuggestedSubstitutions(t.Context(), m.ID, pinDewi)
	if err != nil {
		t.Fatalf("get suggestions: %v", err)
	}
	if report.OnFieldCount != 2 || report.BenchCount != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if len(report.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %+v", report.Suggestions)
	}
	if report.Suggestions[0].Out.PlayerID != "p2" || report.Suggestions[0].In.PlayerID != "p3" {
		t.Fatalf("keeper must never be suggested off: %+v", report.Suggestions[0])
	}
}
