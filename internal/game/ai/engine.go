package ai

import (
	"fmt"
	"math/rand/v2"

	"triad/internal/game/card"
)

// Engine picks moves by exhaustive expected value. For every candidate
// property it averages the net score (own points minus opponent points)
// over every card the opponent could still hold crossed with every
// property the opponent may still play, treating each combination as
// equally likely. It never searches opponent replies beyond that.
type Engine struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// NewEngine builds an engine for the given difficulty. The rng feeds the
// easy and normal perturbations; hard and expert are deterministic and
// accept a nil rng.
func NewEngine(difficulty Difficulty, rng *rand.Rand) *Engine {
	return &Engine{difficulty: difficulty, rng: rng}
}

func (e *Engine) ChooseProperty(own *card.Card, available []card.Property, opponentPool []*card.Card, opponentUsed []card.Property) (card.Property, error) {
	if own == nil {
		return "", fmt.Errorf("%w: no card in play", card.ErrInvalidInput)
	}
	if len(available) == 0 {
		return "", fmt.Errorf("%w: no properties left to choose from", card.ErrInvalidInput)
	}
	// Forced move, nothing to evaluate.
	if len(available) == 1 {
		return available[0], nil
	}

	pool := opponentPool
	if len(pool) == 0 {
		pool = card.GenerateAll()
	}
	oppProps := remainingProperties(opponentUsed)

	best := available[0]
	bestScore := e.score(own, available[0], pool, oppProps)
	for _, candidate := range available[1:] {
		if s := e.score(own, candidate, pool, oppProps); s > bestScore {
			best, bestScore = candidate, s
		}
	}
	return best, nil
}

func (e *Engine) ChooseCardAndProperty(hand []*card.Card, usedCards []bool, available []card.Property, opponentPool []*card.Card, opponentUsed []card.Property) (int, card.Property, error) {
	var unused []int
	for i := range hand {
		if hand[i] == nil {
			continue
		}
		if i < len(usedCards) && usedCards[i] {
			continue
		}
		unused = append(unused, i)
	}
	if len(unused) == 0 {
		return 0, "", fmt.Errorf("%w: no cards left to choose from", card.ErrInvalidInput)
	}
	if len(available) == 0 {
		return 0, "", fmt.Errorf("%w: no properties left to choose from", card.ErrInvalidInput)
	}
	if len(unused) == 1 && len(available) == 1 {
		return unused[0], available[0], nil
	}

	pool := opponentPool
	if len(pool) == 0 {
		pool = card.GenerateAll()
	}
	oppProps := remainingProperties(opponentUsed)

	bestIdx, bestProp := unused[0], available[0]
	bestScore := e.score(hand[bestIdx], bestProp, pool, oppProps)
	for _, idx := range unused {
		for _, candidate := range available {
			if idx == bestIdx && candidate == bestProp {
				continue
			}
			if s := e.score(hand[idx], candidate, pool, oppProps); s > bestScore {
				bestIdx, bestProp, bestScore = idx, candidate, s
			}
		}
	}
	return bestIdx, bestProp, nil
}

// score is the expected net plus the difficulty perturbation.
func (e *Engine) score(own *card.Card, candidate card.Property, pool []*card.Card, oppProps []card.Property) float64 {
	s := expectedNet(own, candidate, pool, oppProps)
	s += e.difficulty.modifier(own, candidate)
	if span := e.difficulty.noiseSpan(); span > 0 && e.rng != nil {
		s += (e.rng.Float64()*2 - 1) * span
	}
	return s
}

// expectedNet averages own points minus opponent points over the cross
// product of the opponent's possible cards and properties.
func expectedNet(own *card.Card, candidate card.Property, pool []*card.Card, oppProps []card.Property) float64 {
	ownVal := int(own.Value(candidate))
	var total float64
	var samples int
	for _, opp := range pool {
		for _, oppProp := range oppProps {
			mine, theirs, err := card.Score(candidate, ownVal, oppProp, int(opp.Value(oppProp)))
			if err != nil {
				continue
			}
			total += float64(mine - theirs)
			samples++
		}
	}
	if samples == 0 {
		return 0
	}
	return total / float64(samples)
}

// remainingProperties is the set the opponent can still play. When the
// caller has no spend information the full triad is assumed.
func remainingProperties(used []card.Property) []card.Property {
	spent := make(map[card.Property]bool, len(used))
	for _, p := range used {
		spent[p] = true
	}
	var remaining []card.Property
	for _, p := range card.AllProperties() {
		if !spent[p] {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		return card.AllProperties()
	}
	return remaining
}
