package game

import "smart_horses/internal/errors"

// Difficulty selects how deep the machine searches.
type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultyAmateur  Difficulty = "amateur"
	DifficultyExpert   Difficulty = "expert"
)

// Difficulties lists the supported tiers in ascending strength order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyAmateur, DifficultyExpert}
}

func ParseDifficulty(v string) (Difficulty, error) {
	switch Difficulty(v) {
	case DifficultyBeginner, DifficultyAmateur, DifficultyExpert:
		return Difficulty(v), nil
	}
	return "", errors.ErrUnknownDifficulty
}

func (d Difficulty) Depth() int {
	switch d {
	case DifficultyAmateur:
		return 4
	case DifficultyExpert:
		return 6
	default:
		return 2
	}
}
