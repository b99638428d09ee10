package engine

import "github.com/MRamiBalles/SalonMascotasJuego/server/internal/domain/rules"

// Mode selects the match size. It is fixed before match start and must not
// change mid-match.
type Mode string

const (
	ModeDuo  Mode = "DUO"  // 2 pets
	ModeTrio Mode = "TRIO" // 3 pets
)

// MatchConfig is the pure configuration derived from the mode.
type MatchConfig struct {
	Mode              Mode `json:"mode"`
	PetCount          int  `json:"pet_count"`
	MischiefThreshold int  `json:"mischief_threshold"`
}

// ConfigForMode maps a game mode to its pet count and mischief threshold.
func ConfigForMode(m Mode) MatchConfig {
	petCount := 2
	if m == ModeTrio {
		petCount = 3
	}
	return MatchConfig{
		Mode:              m,
		PetCount:          petCount,
		MischiefThreshold: rules.MischiefThreshold(petCount),
	}
}
