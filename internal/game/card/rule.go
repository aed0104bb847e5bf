package card

import "fmt"

// Score resolves one round of play between two (property, value) pairs and
// returns the points awarded to each side.
//
// The rules, in order:
//  1. Same property: the higher value wins the absolute difference. Equal
//     values award nothing.
//  2. Side A holds the dominant property AND the strictly higher value:
//     A scores the difference, B scores nothing.
//  3. Mirror of 2 for side B.
//  4. Anything else scores nothing for either side. Dominance alone is not
//     enough; without the higher value the round is dead.
func Score(propA Property, valA int, propB Property, valB int) (int, int, error) {
	if err := validateScoreInput(propA, valA); err != nil {
		return 0, 0, err
	}
	if err := validateScoreInput(propB, valB); err != nil {
		return 0, 0, err
	}

	if propA == propB {
		switch {
		case valA > valB:
			return valA - valB, 0, nil
		case valB > valA:
			return 0, valB - valA, nil
		}
		return 0, 0, nil
	}

	if propA.Beats(propB) && valA > valB {
		return valA - valB, 0, nil
	}
	if propB.Beats(propA) && valB > valA {
		return 0, valB - valA, nil
	}

	return 0, 0, nil
}

func validateScoreInput(p Property, val int) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: unknown property %q", ErrInvalidInput, string(p))
	}
	if val < MinStatValue || val > MaxStatValue {
		return fmt.Errorf("%w: value %d out of range %d-%d", ErrInvalidInput, val, MinStatValue, MaxStatValue)
	}
	return nil
}

// Explain produces a display-only rationale for a resolved round. It assumes
// the inputs already passed Score validation.
func Explain(propA Property, valA int, propB Property, valB int) string {
	ptsA, ptsB, err := Score(propA, valA, propB, valB)
	if err != nil {
		return err.Error()
	}

	switch {
	case propA == propB && ptsA == 0 && ptsB == 0:
		return fmt.Sprintf("%s %d vs %s %d: dead heat, no points", propA, valA, propB, valB)
	case propA == propB:
		return fmt.Sprintf("%s %d vs %s %d: same property, higher value takes the difference", propA, valA, propB, valB)
	case ptsA > 0:
		return fmt.Sprintf("%s beats %s and %d > %d: side one scores %d", propA, propB, valA, valB, ptsA)
	case ptsB > 0:
		return fmt.Sprintf("%s beats %s and %d > %d: side two scores %d", propB, propA, valB, valA, ptsB)
	case propA.Beats(propB):
		return fmt.Sprintf("%s beats %s but %d does not exceed %d: no points", propA, propB, valA, valB)
	case propB.Beats(propA):
		return fmt.Sprintf("%s beats %s but %d does not exceed %d: no points", propB, propA, valB, valA)
	}
	return fmt.Sprintf("%s %d vs %s %d: no dominance, no points", propA, valA, propB, valB)
}
