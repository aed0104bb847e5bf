package card

import (
	"fmt"
	"strings"
)

// Property is one of the three stats printed on every card.
type Property string

const (
	Deception Property = "deception"
	Magic     Property = "magic"
	Attack    Property = "attack"
)

// winConditions is the single source of truth for the dominance cycle.
// The key beats the value: attack beats magic, magic beats deception,
// deception beats attack. Every beats/loses-to query derives from this map.
var winConditions = map[Property]Property{
	Attack:    Magic,
	Magic:     Deception,
	Deception: Attack,
}

// legacyNames maps the old rock/paper/scissor naming scheme onto the current
// properties. The mapping preserves the old cycle: rock beat scissor, so
// attack beats magic, and so on down the line.
var legacyNames = map[string]Property{
	"rock":    Attack,
	"paper":   Deception,
	"scissor": Magic,
}

// AllProperties returns the three properties in enumeration order.
// The order is stable; tie-breaks elsewhere rely on it.
func AllProperties() []Property {
	return []Property{Deception, Magic, Attack}
}

// Beats reports whether p dominates other in the cycle.
func (p Property) Beats(other Property) bool {
	return winConditions[p] == other
}

// LosesTo reports whether other dominates p.
func (p Property) LosesTo(other Property) bool {
	return winConditions[other] == p
}

func (p Property) IsValid() bool {
	_, ok := winConditions[p]
	return ok
}

func (p Property) String() string { return string(p) }

// ParseProperty normalizes a raw property name into a Property.
// Legacy rock/paper/scissor names are accepted here and nowhere else; the
// rest of the engine only ever sees the current scheme.
func ParseProperty(name string) (Property, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if legacy, ok := legacyNames[n]; ok {
		return legacy, nil
	}
	p := Property(n)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: unknown property %q", ErrInvalidInput, name)
	}
	return p, nil
}
