package card

import (
	"fmt"
	"math/rand/v2"
)

// Pile is an ordered stack of catalog cards, used for dealing.
type Pile []*Card

func (p *Pile) Size() int {
	if p == nil {
		return 0
	}
	return len(*p)
}

func (p *Pile) Shuffle(r *rand.Rand) {
	n := p.Size()
	if n > 1 {
		for i := n - 1; i > 0; i-- {
			j := r.IntN(i + 1)
			(*p)[i], (*p)[j] = (*p)[j], (*p)[i]
		}
	}
}

func (p *Pile) AddCard(c *Card) {
	*p = append(*p, c)
}

func (p *Pile) GetCard(index int) (*Card, error) {
	if index < 0 || index >= p.Size() {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidInput, index)
	}
	return (*p)[index], nil
}

// DrawCard removes and returns a uniformly random card from the pile.
func (p *Pile) DrawCard(r *rand.Rand) (*Card, error) {
	n := p.Size()
	if n == 0 {
		return nil, fmt.Errorf("%w: pile is empty", ErrExhaustedPool)
	}
	index := r.IntN(n)
	c := (*p)[index]
	*p = append((*p)[:index], (*p)[index+1:]...)
	return c, nil
}

// DrawTop removes and returns the card on top of the pile.
func (p *Pile) DrawTop() (*Card, error) {
	if p.Size() == 0 {
		return nil, fmt.Errorf("%w: pile is empty", ErrExhaustedPool)
	}
	top := (*p)[0]
	*p = (*p)[1:]
	return top, nil
}

// poolWithout builds a pile of every catalog card not excluded by id.
func poolWithout(exclude map[int]bool) Pile {
	var pool Pile
	for _, c := range GenerateAll() {
		if exclude[c.ID()] {
			continue
		}
		pool.AddCard(c)
	}
	return pool
}

// RandomCard draws one card uniformly from the universe minus the excluded ids.
func RandomCard(r *rand.Rand, exclude map[int]bool) (*Card, error) {
	pool := poolWithout(exclude)
	return pool.DrawCard(r)
}

// RandomCards draws n distinct cards from the universe minus the excluded ids.
// If the pool runs dry the cards drawn so far are returned together with an
// error wrapping ErrExhaustedPool; callers must treat a short result as a
// failure, never a partial success.
func RandomCards(r *rand.Rand, n int, exclude map[int]bool) ([]*Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: cannot draw %d cards", ErrInvalidInput, n)
	}
	pool := poolWithout(exclude)
	pool.Shuffle(r)

	drawn := make([]*Card, 0, n)
	for i := 0; i < n; i++ {
		c, err := pool.DrawTop()
		if err != nil {
			return drawn, fmt.Errorf("%w: wanted %d cards, only %d available", ErrExhaustedPool, n, len(drawn))
		}
		drawn = append(drawn, c)
	}
	return drawn, nil
}
