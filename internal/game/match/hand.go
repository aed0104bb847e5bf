package match

import (
	"fmt"

	"triad/internal/game/card"
)

// HandSize is the number of cards each side brings into a match, one per
// card-game.
const HandSize = 3

// Hand is one side's cards for a match plus the used flags that track which
// cards already fought. Cards are shared read-only with the catalog.
type Hand struct {
	cards [HandSize]*card.Card
	used  [HandSize]bool
}

// NewHand validates the three cards: all present, all distinct.
func NewHand(cards [HandSize]*card.Card) (*Hand, error) {
	seen := make(map[int]bool)
	for i, c := range cards {
		if c == nil {
			return nil, fmt.Errorf("%w: hand slot %d is empty", card.ErrInvalidCard, i)
		}
		if seen[c.ID()] {
			return nil, fmt.Errorf("%w: duplicate card %s in hand", card.ErrInvalidCard, c.Key())
		}
		seen[c.ID()] = true
	}
	return &Hand{cards: cards}, nil
}

func (h *Hand) Card(index int) (*card.Card, error) {
	if index < 0 || index >= HandSize {
		return nil, fmt.Errorf("%w: card index %d out of range", card.ErrInvalidInput, index)
	}
	return h.cards[index], nil
}

// Cards returns the hand in order. The slice is a copy.
func (h *Hand) Cards() []*card.Card {
	out := make([]*card.Card, HandSize)
	copy(out[:], h.cards[:])
	return out
}

func (h *Hand) IsUsed(index int) bool {
	if index < 0 || index >= HandSize {
		return false
	}
	return h.used[index]
}

func (h *Hand) UnusedIndices() []int {
	var out []int
	for i, u := range h.used {
		if !u {
			out = append(out, i)
		}
	}
	return out
}

func (h *Hand) markUsed(index int) {
	h.used[index] = true
}
