package match

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLineup    Status = "lineup"
	StatusLive      Status = "live"
	StatusHalftime  Status = "halftime"
	StatusFinished  Status = "finished"
)

var AllStatuses = map[Status]struct{}{
	StatusScheduled: {},
	StatusLineup:    {},
	StatusLive:      {},
	StatusHalftime:  {},
	StatusFinished:  {},
}

// RegulationSeconds is the full regulation length shared by all quarters.
const RegulationSeconds = 3600

var (
	ErrInvalidTransition = errors.New("invalid match state transition")
	ErrInvalidMatch      = errors.New("invalid match")
	ErrPlayerNotInMatch  = errors.New("player not in match")
	ErrNoGoalToUndo      = errors.New("no goal to undo")
	ErrLeadClaimed       = errors.New("match lead already claimed")
)

// Match is one live fixture of a team against an opponent.
type Match struct {
	ID         string
	TeamID     string
	Opponent   string
	IsHome     bool
	PublicCode string

	Status               Status
	CurrentQuarter       int
	QuarterCount         int
	QuarterStartedAt     *time.Time
	PausedAt             *time.Time
	AccumulatedPauseMs   int64
	BankedOverrunSeconds int

	HomeScore int
	AwayScore int

	CoachPin    string
	RefereeID   string
	LeadCoachID string

	// Revision grows by one with every committed change to the match.
	Revision int64

	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidMatch)
	}
	if strings.TrimSpace(m.TeamID) == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidMatch)
	}
	if strings.TrimSpace(m.Opponent) == "" {
		return fmt.Errorf("%w: opponent is required", ErrInvalidMatch)
	}
	if !ValidQuarterCount(m.QuarterCount) {
		return fmt.Errorf("%w: quarter count must be 2 or 4, got %d", ErrInvalidMatch, m.QuarterCount)
	}
	if _, ok := AllStatuses[m.Status]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidMatch, m.Status)
	}

	return nil
}

func ValidQuarterCount(n int) bool {
	return n == 2 || n == 4
}

func (m Match) IsPaused() bool {
	return m.PausedAt != nil
}

// ClockRunning reports whether playing time is currently being credited.
func (m Match) ClockRunning() bool {
	return m.Status == StatusLive && m.PausedAt == nil && m.QuarterStartedAt != nil
}

// InProgress is true between kickoff and the final whistle.
func (m Match) InProgress() bool {
	return m.Status == StatusLive || m.Status == StatusHalftime
}

func (m Match) ClockSnapshot() ClockSnapshot {
	return ClockSnapshot{
		CurrentQuarter:       m.CurrentQuarter,
		QuarterCount:         m.QuarterCount,
		QuarterStartedAt:     m.QuarterStartedAt,
		PausedAt:             m.PausedAt,
		AccumulatedPauseMs:   m.AccumulatedPauseMs,
		BankedOverrunSeconds: m.BankedOverrunSeconds,
	}
}

// Side identifies which score column a goal counts for.
type Side string

const (
	SideTeam     Side = "team"
	SideOpponent Side = "opponent"
)

// ApplyScore adds delta to the side's score, never letting it drop below zero.
func (m *Match) ApplyScore(side Side, delta int) {
	homeSide := (side == SideTeam) == m.IsHome
	if homeSide {
		m.HomeScore = max(0, m.HomeScore+delta)
		return
	}
	m.AwayScore = max(0, m.AwayScore+delta)
}

func (m Match) Score(side Side) int {
	if (side == SideTeam) == m.IsHome {
		return m.HomeScore
	}
	return m.AwayScore
}

func timePtr(t time.Time) *time.Time {
	return &t
}
