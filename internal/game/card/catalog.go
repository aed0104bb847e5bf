package card

import (
	"fmt"
	"sync"
)

// The catalog holds every legal card exactly once. Cards are enumerated with
// deception ascending, then magic ascending, deriving attack from the fixed
// total, so ids are stable across runs.
var (
	catalogOnce sync.Once
	universe    []*Card
	byKey       map[string]*Card
)

func ensureCatalog() {
	catalogOnce.Do(func() {
		byKey = make(map[string]*Card)
		for d := MinStatValue; d <= MaxStatValue; d++ {
			for m := MinStatValue; m <= MaxStatValue; m++ {
				a := TotalStatPoints - d - m
				if a < MinStatValue || a > MaxStatValue {
					continue
				}
				c, err := newCard(len(universe), uint8(d), uint8(m), uint8(a))
				if err != nil {
					// Enumeration only produces in-range stat lines.
					panic(fmt.Sprintf("catalog generation produced an illegal card: %v", err))
				}
				universe = append(universe, c)
				byKey[c.Key()] = c
			}
		}
	})
}

// GenerateAll returns the full universe of legal cards in id order.
// The returned slice is a copy; the cards themselves are shared read-only.
func GenerateAll() []*Card {
	ensureCatalog()
	out := make([]*Card, len(universe))
	copy(out, universe)
	return out
}

// UniverseSize is 36 for the current total of 20 and range 1-9.
func UniverseSize() int {
	ensureCatalog()
	return len(universe)
}

// GetCard looks up the catalog card for a stat-line key.
func GetCard(key string) (*Card, error) {
	ensureCatalog()
	if c, ok := byKey[key]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: card not found: %s", ErrInvalidCard, key)
}

// CardByID looks up a card by its stable catalog id.
func CardByID(id int) (*Card, error) {
	ensureCatalog()
	if id < 0 || id >= len(universe) {
		return nil, fmt.Errorf("%w: no card with id %d", ErrInvalidCard, id)
	}
	return universe[id], nil
}
