package memory

import (
	"github.com/riskibarqy/matchday/internal/domain/access"
)

const (
	TeamIDFalconsU11 = "team-falcons-u11"
	TeamIDOwlsU9     = "team-owls-u9"

	CoachIDDewi  = "coach-dewi"
	CoachIDRaka  = "coach-raka"
	CoachIDSinta = "coach-sinta"

	RefereeIDBudi = "ref-budi"
)

func SeedCoaches() []access.Coach {
	return []access.Coach{
		{ID: CoachIDDewi, Name: "Dewi Lestari", Pin: "1111", TeamIDs: []string{TeamIDFalconsU11}},
		{ID: CoachIDRaka, Name: "Raka Pratama", Pin: "2222", TeamIDs: []string{TeamIDFalconsU11, TeamIDOwlsU9}},
		{ID: CoachIDSinta, Name: "Sinta Wijaya", Pin: "3333", TeamIDs: []string{TeamIDOwlsU9}},
	}
}

func SeedReferees() []access.Referee {
	return []access.Referee{
		{ID: RefereeIDBudi, Name: "Budi Santoso", Pin: "9090"},
	}
}
