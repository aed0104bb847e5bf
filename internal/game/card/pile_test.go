package card

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestRandomCardExcludes(t *testing.T) {
	r := testRand()
	exclude := make(map[int]bool)
	// Draw the whole universe one card at a time; every draw must be new.
	for i := 0; i < UniverseSize(); i++ {
		c, err := RandomCard(r, exclude)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if exclude[c.ID()] {
			t.Fatalf("draw %d returned excluded card %s", i, c)
		}
		exclude[c.ID()] = true
	}
	if _, err := RandomCard(r, exclude); !errors.Is(err, ErrExhaustedPool) {
		t.Errorf("draw from empty pool error = %v, want ErrExhaustedPool", err)
	}
}

func TestRandomCardsDistinct(t *testing.T) {
	r := testRand()
	cards, err := RandomCards(r, 3, nil)
	if err != nil {
		t.Fatalf("RandomCards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	seen := make(map[int]bool)
	for _, c := range cards {
		if seen[c.ID()] {
			t.Errorf("duplicate card %s in sample", c)
		}
		seen[c.ID()] = true
	}
}

func TestRandomCardsExhaustion(t *testing.T) {
	r := testRand()
	got, err := RandomCards(r, UniverseSize()+1, nil)
	if !errors.Is(err, ErrExhaustedPool) {
		t.Fatalf("error = %v, want ErrExhaustedPool", err)
	}
	// The short result still reports what was drawn before the pool ran dry.
	if len(got) != UniverseSize() {
		t.Errorf("short result has %d cards, want %d", len(got), UniverseSize())
	}
}

func TestPileDraws(t *testing.T) {
	r := testRand()
	var p Pile
	for _, c := range GenerateAll()[:4] {
		p.AddCard(c)
	}
	p.Shuffle(r)
	if p.Size() != 4 {
		t.Fatalf("pile size = %d, want 4", p.Size())
	}
	if _, err := p.GetCard(4); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("GetCard out of range error = %v, want ErrInvalidInput", err)
	}
	for p.Size() > 0 {
		if _, err := p.DrawTop(); err != nil {
			t.Fatalf("DrawTop: %v", err)
		}
	}
	if _, err := p.DrawCard(r); !errors.Is(err, ErrExhaustedPool) {
		t.Errorf("DrawCard on empty pile error = %v, want ErrExhaustedPool", err)
	}
}
