package ai

import (
	"fmt"
	"math/rand/v2"

	"triad/internal/game/card"
)

// MoveSource is anything that can pick a move for a seat: the expected-value
// engine, a random player, or a human adapted by the driver.
type MoveSource interface {
	// ChooseProperty picks one of the available properties for the card in
	// play, knowing which properties the opponent has already spent.
	ChooseProperty(own *card.Card, available []card.Property, opponentPool []*card.Card, opponentUsed []card.Property) (card.Property, error)

	// ChooseCardAndProperty additionally picks which unused card to play.
	ChooseCardAndProperty(hand []*card.Card, usedCards []bool, available []card.Property, opponentPool []*card.Card, opponentUsed []card.Property) (int, card.Property, error)
}

// RandomSource picks uniformly among the legal moves.
type RandomSource struct {
	rng *rand.Rand
}

func NewRandomSource(rng *rand.Rand) *RandomSource {
	return &RandomSource{rng: rng}
}

func (s *RandomSource) ChooseProperty(_ *card.Card, available []card.Property, _ []*card.Card, _ []card.Property) (card.Property, error) {
	if len(available) == 0 {
		return "", fmt.Errorf("%w: no properties left to choose from", card.ErrInvalidInput)
	}
	return available[s.rng.IntN(len(available))], nil
}

func (s *RandomSource) ChooseCardAndProperty(hand []*card.Card, usedCards []bool, available []card.Property, pool []*card.Card, used []card.Property) (int, card.Property, error) {
	var unused []int
	for i := range hand {
		if i < len(usedCards) && usedCards[i] {
			continue
		}
		unused = append(unused, i)
	}
	if len(unused) == 0 {
		return 0, "", fmt.Errorf("%w: no cards left to choose from", card.ErrInvalidInput)
	}
	index := unused[s.rng.IntN(len(unused))]
	prop, err := s.ChooseProperty(hand[index], available, pool, used)
	if err != nil {
		return 0, "", err
	}
	return index, prop, nil
}
