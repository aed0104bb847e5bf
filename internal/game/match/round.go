package match

import (
	"fmt"

	"triad/internal/game/card"
)

// RoundsPerCardGame is fixed: one round per property on the card.
const RoundsPerCardGame = 3

// RoundState is the per-round phase of the round machine.
type RoundState string

const (
	RoundAwaitingSelections RoundState = "awaiting_selections"
	RoundResolved           RoundState = "resolved"
)

// Round is one resolved property-vs-property contest. Immutable once built.
type Round struct {
	PropA     card.Property
	ValA      int
	PropB     card.Property
	ValB      int
	PointsA   int
	PointsB   int
	Outcome   Outcome
	Rationale string
}

// RoundMachine runs the three rounds of one card-game. Each side commits one
// property per round and never repeats a property within the card-game.
type RoundMachine struct {
	cards   [2]*card.Card
	state   RoundState
	round   int // 1-based
	used    [2]map[card.Property]bool
	pending [2]*card.Property
	rounds  []Round
}

func NewRoundMachine(cardA, cardB *card.Card) (*RoundMachine, error) {
	if cardA == nil || cardB == nil {
		return nil, fmt.Errorf("%w: round machine needs a card on each side", card.ErrInvalidCard)
	}
	return &RoundMachine{
		cards: [2]*card.Card{cardA, cardB},
		state: RoundAwaitingSelections,
		round: 1,
		used: [2]map[card.Property]bool{
			make(map[card.Property]bool),
			make(map[card.Property]bool),
		},
	}, nil
}

func (m *RoundMachine) State() RoundState { return m.state }

// RoundNumber is the 1-based index of the round being played or just resolved.
func (m *RoundMachine) RoundNumber() int { return m.round }

func (m *RoundMachine) Card(side Side) *card.Card { return m.cards[side] }

// Rounds returns the resolved rounds so far. The slice is a copy.
func (m *RoundMachine) Rounds() []Round {
	out := make([]Round, len(m.rounds))
	copy(out, m.rounds)
	return out
}

func (m *RoundMachine) HasCommitted(side Side) bool {
	return m.pending[side] != nil
}

// AvailableProperties lists the side's unused properties in enumeration order.
func (m *RoundMachine) AvailableProperties(side Side) []card.Property {
	var out []card.Property
	for _, p := range card.AllProperties() {
		if !m.used[side][p] {
			out = append(out, p)
		}
	}
	return out
}

// OnlyOneLeft reports whether the side is down to a single unused property,
// so drivers can auto-play the final round instead of prompting.
func (m *RoundMachine) OnlyOneLeft(side Side) (card.Property, bool) {
	avail := m.AvailableProperties(side)
	if len(avail) == 1 {
		return avail[0], true
	}
	return "", false
}

// CommitProperty records one side's choice for the current round. When both
// sides have committed the round resolves immediately. A rejected commit
// leaves the machine untouched.
func (m *RoundMachine) CommitProperty(side Side, prop card.Property) error {
	if m.state != RoundAwaitingSelections {
		return fmt.Errorf("%w: round %d is already resolved", ErrPhaseViolation, m.round)
	}
	if m.pending[side] != nil {
		return fmt.Errorf("%w: %s already committed a property this round", ErrPhaseViolation, side)
	}
	if !prop.IsValid() {
		return fmt.Errorf("%w: unknown property %q", card.ErrInvalidInput, string(prop))
	}
	if m.used[side][prop] {
		return fmt.Errorf("%w: %s already played %s", ErrPropertyReused, side, prop)
	}

	p := prop
	m.pending[side] = &p
	m.used[side][prop] = true

	if m.pending[SideA] != nil && m.pending[SideB] != nil {
		m.resolve()
	}
	return nil
}

// AutoPlayFinal commits the single remaining property for any side that has
// not committed yet. Only legal on the final round when each uncommitted side
// has exactly one property left.
func (m *RoundMachine) AutoPlayFinal() error {
	if m.state != RoundAwaitingSelections || m.round != RoundsPerCardGame {
		return fmt.Errorf("%w: auto-play is only allowed on round %d", ErrPhaseViolation, RoundsPerCardGame)
	}
	for _, side := range []Side{SideA, SideB} {
		if m.pending[side] != nil {
			continue
		}
		if _, ok := m.OnlyOneLeft(side); !ok {
			return fmt.Errorf("%w: %s still has a real choice to make", ErrPhaseViolation, side)
		}
	}
	for _, side := range []Side{SideA, SideB} {
		if m.pending[side] != nil {
			continue
		}
		prop, _ := m.OnlyOneLeft(side)
		if err := m.CommitProperty(side, prop); err != nil {
			return err
		}
	}
	return nil
}

func (m *RoundMachine) resolve() {
	propA, propB := *m.pending[SideA], *m.pending[SideB]
	valA := int(m.cards[SideA].Value(propA))
	valB := int(m.cards[SideB].Value(propB))

	// Committed properties come from the closed enum and card stats stay in
	// range for the card's whole life, so Score cannot fail here.
	ptsA, ptsB, _ := card.Score(propA, valA, propB, valB)

	m.rounds = append(m.rounds, Round{
		PropA:     propA,
		ValA:      valA,
		PropB:     propB,
		ValB:      valB,
		PointsA:   ptsA,
		PointsB:   ptsB,
		Outcome:   outcomeFor(ptsA, ptsB),
		Rationale: card.Explain(propA, valA, propB, valB),
	})
	m.state = RoundResolved
}

// Advance moves to the next round after a resolution.
func (m *RoundMachine) Advance() error {
	if m.state != RoundResolved {
		return fmt.Errorf("%w: round %d has not resolved yet", ErrPhaseViolation, m.round)
	}
	if m.AllRoundsComplete() {
		return fmt.Errorf("%w: all %d rounds are complete", ErrPhaseViolation, RoundsPerCardGame)
	}
	m.round++
	m.pending[SideA] = nil
	m.pending[SideB] = nil
	m.state = RoundAwaitingSelections
	return nil
}

func (m *RoundMachine) AllRoundsComplete() bool {
	return len(m.rounds) == RoundsPerCardGame
}
