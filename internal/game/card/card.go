package card

import (
	"fmt"
)

const (
	// TotalStatPoints is the fixed sum of the three stats on any legal card.
	TotalStatPoints = 20

	MinStatValue = 1
	MaxStatValue = 9
)

// Rarity is derived from the spread between a card's best and worst stat.
// Tight spreads are rarer.
type Rarity string

const (
	RarityLegendary Rarity = "legendary" // spread <= 1
	RarityRare      Rarity = "rare"      // spread <= 3
	RarityUncommon  Rarity = "uncommon"  // spread <= 5
	RarityCommon    Rarity = "common"
)

// Card is an immutable value. Instances live in the package catalog and are
// shared read-only; nothing outside this package can construct or mutate one.
type Card struct {
	id        int
	deception uint8
	magic     uint8
	attack    uint8
}

func (c *Card) ID() int          { return c.id }
func (c *Card) Deception() uint8 { return c.deception }
func (c *Card) Magic() uint8     { return c.magic }
func (c *Card) Attack() uint8    { return c.attack }

// Value looks up a stat by property. Unknown properties read as zero;
// ParseProperty is the boundary where raw names get rejected.
func (c *Card) Value(p Property) uint8 {
	switch p {
	case Deception:
		return c.deception
	case Magic:
		return c.magic
	case Attack:
		return c.attack
	}
	return 0
}

// Highest returns the strongest property and its value. Ties resolve in
// enumeration order (deception, magic, attack).
func (c *Card) Highest() (Property, uint8) {
	best := AllProperties()[0]
	bestVal := c.Value(best)
	for _, p := range AllProperties()[1:] {
		if v := c.Value(p); v > bestVal {
			best, bestVal = p, v
		}
	}
	return best, bestVal
}

// Lowest returns the weakest property and its value, ties in enumeration order.
func (c *Card) Lowest() (Property, uint8) {
	worst := AllProperties()[0]
	worstVal := c.Value(worst)
	for _, p := range AllProperties()[1:] {
		if v := c.Value(p); v < worstVal {
			worst, worstVal = p, v
		}
	}
	return worst, worstVal
}

func (c *Card) spread() uint8 {
	_, hi := c.Highest()
	_, lo := c.Lowest()
	return hi - lo
}

// IsBalanced reports whether the card's stats stay within 3 points of each other.
func (c *Card) IsBalanced() bool {
	return c.spread() <= 3
}

func (c *Card) Rarity() Rarity {
	switch s := c.spread(); {
	case s <= 1:
		return RarityLegendary
	case s <= 3:
		return RarityRare
	case s <= 5:
		return RarityUncommon
	default:
		return RarityCommon
	}
}

// Key identifies a card by its stat line, independent of catalog ids.
func (c *Card) Key() string {
	return CardKey(c.deception, c.magic, c.attack)
}

func (c *Card) String() string {
	return fmt.Sprintf("#%d [deception:%d magic:%d attack:%d]", c.id, c.deception, c.magic, c.attack)
}

func CardKey(deception, magic, attack uint8) string {
	return fmt.Sprintf("%d:%d:%d", deception, magic, attack)
}

// ---- Construtor ----

type cardValidator func(*Card) error

func validateRange(c *Card) error {
	for _, p := range AllProperties() {
		v := c.Value(p)
		if v < MinStatValue || v > MaxStatValue {
			return fmt.Errorf("%w: %s is %d (must be %d-%d)", ErrInvalidCard, p, v, MinStatValue, MaxStatValue)
		}
	}
	return nil
}

func validateSum(c *Card) error {
	sum := int(c.deception) + int(c.magic) + int(c.attack)
	if sum != TotalStatPoints {
		return fmt.Errorf("%w: stats sum to %d, want %d", ErrInvalidCard, sum, TotalStatPoints)
	}
	return nil
}

func newCard(id int, deception, magic, attack uint8) (*Card, error) {
	c := &Card{id: id, deception: deception, magic: magic, attack: attack}

	validators := []cardValidator{
		validateRange,
		validateSum,
	}

	for _, v := range validators {
		if err := v(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewCard validates a hand-constructed stat line and returns the canonical
// catalog card for it, so ids stay stable no matter where a card comes from.
func NewCard(deception, magic, attack uint8) (*Card, error) {
	if _, err := newCard(0, deception, magic, attack); err != nil {
		return nil, err
	}
	return GetCard(CardKey(deception, magic, attack))
}
