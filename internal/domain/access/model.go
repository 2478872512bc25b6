package access

import (
	"crypto/subtle"
	"errors"
)

// ErrInvalidMatchOrPIN is the only failure callers ever see, whatever the cause.
var ErrInvalidMatchOrPIN = errors.New("invalid match or PIN")

type Coach struct {
	ID      string
	Name    string
	Pin     string
	TeamIDs []string
}

type Referee struct {
	ID   string
	Name string
	Pin  string
}

// ActorKind tags the resolved caller.
type ActorKind int

const (
	ActorUnauthorized ActorKind = iota
	ActorCoach
	ActorReferee
)

func (k ActorKind) String() string {
	switch k {
	case ActorCoach:
		return "coach"
	case ActorReferee:
		return "referee"
	default:
		return "unauthorized"
	}
}

// Actor is the result of resolving a PIN against a match. ID is empty for a
// coach authenticated through the match's own coach PIN.
type Actor struct {
	Kind   ActorKind
	ID     string
	IsLead bool
}

// Policy selects which actors may run an operation.
type Policy int

const (
	// PolicyCoachLead admits the lead coach while the match is in progress and
	// any team coach before kickoff. Referees always pass.
	PolicyCoachLead Policy = iota
	// PolicyAnyCoach admits every team coach and never a referee.
	PolicyAnyCoach
	// PolicyCoachOrReferee admits any team coach or the assigned referee.
	PolicyCoachOrReferee
)

func pinEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
