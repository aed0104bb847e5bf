package ai

import (
	"fmt"
	"strings"

	"triad/internal/game/card"
)

// Difficulty selects the perturbation layered on top of the base expected
// value. The empty difficulty applies no perturbation at all.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

func ParseDifficulty(name string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(name))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyNormal, "":
		return DifficultyNormal, nil
	case DifficultyHard:
		return DifficultyHard, nil
	case DifficultyExpert:
		return DifficultyExpert, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", card.ErrInvalidInput, name)
}

// noiseSpan is the half-width of the random perturbation for the sloppy
// difficulties. Easy wanders far enough to pick clearly losing moves.
func (d Difficulty) noiseSpan() float64 {
	switch d {
	case DifficultyEasy:
		return 2.5
	case DifficultyNormal:
		return 0.75
	}
	return 0
}

// modifier is the deterministic bonus applied by the sharp difficulties:
// playing the card's strongest stat is favored, big absolute values are
// favored, tiny ones penalized.
func (d Difficulty) modifier(own *card.Card, candidate card.Property) float64 {
	var synergy, magnitude float64
	switch d {
	case DifficultyHard:
		synergy, magnitude = 1.0, 1.5
	case DifficultyExpert:
		synergy, magnitude = 2.0, 3.0
	default:
		return 0
	}

	var bonus float64
	if strongest, _ := own.Highest(); strongest == candidate {
		bonus += synergy
	}
	switch v := own.Value(candidate); {
	case v >= 8:
		bonus += magnitude
	case v <= 2:
		bonus -= magnitude
	}
	return bonus
}
