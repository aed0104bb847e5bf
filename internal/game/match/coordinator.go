package match

import (
	"fmt"
	"time"

	"triad/internal/game/card"
)

// CardGamesPerMatch is fixed: one card-game per card in a hand.
const CardGamesPerMatch = HandSize

// CardGameResult is the frozen outcome of one completed card-game.
type CardGameResult struct {
	CardA   *card.Card
	CardB   *card.Card
	Rounds  []Round
	PointsA int
	PointsB int
	Winner  Outcome
}

// MatchResult is frozen when the third card-game completes.
type MatchResult struct {
	Winner   Outcome
	ScoreA   int
	ScoreB   int
	StatsA   SideStats
	StatsB   SideStats
	Games    []CardGameResult
	Duration time.Duration
}

// Coordinator sequences the three card-games of a match. It owns the round
// machine and aggregator for its own lifetime; a new match means a new
// coordinator, never a reset.
type Coordinator struct {
	phase        Phase
	hands        [2]*Hand
	pendingCards [2]*int
	machine      *RoundMachine
	gameIndex    int // 0-based slot of the card-game being played
	games        []CardGameResult
	agg          *Aggregator
	startedAt    time.Time
	finishedAt   time.Time
	result       *MatchResult
}

// StartMatch builds a coordinator for two 3-card hands under the default
// (zero-bonus) ruleset.
func StartMatch(cardsA, cardsB [HandSize]*card.Card) (*Coordinator, error) {
	return StartMatchWithBonuses(cardsA, cardsB, DefaultBonusConfig())
}

func StartMatchWithBonuses(cardsA, cardsB [HandSize]*card.Card, bonuses BonusConfig) (*Coordinator, error) {
	handA, err := NewHand(cardsA)
	if err != nil {
		return nil, fmt.Errorf("side A hand: %w", err)
	}
	handB, err := NewHand(cardsB)
	if err != nil {
		return nil, fmt.Errorf("side B hand: %w", err)
	}
	return &Coordinator{
		phase:     PhaseCardSelection,
		hands:     [2]*Hand{handA, handB},
		agg:       NewAggregator(bonuses),
		startedAt: time.Now(),
	}, nil
}

func (c *Coordinator) Phase() Phase { return c.phase }

// CurrentGame is the 1-based number of the card-game being played.
func (c *Coordinator) CurrentGame() int { return c.gameIndex + 1 }

// CurrentRound is the 1-based round within the current card-game, or zero
// when no card-game is in progress.
func (c *Coordinator) CurrentRound() int {
	if c.machine == nil {
		return 0
	}
	return c.machine.RoundNumber()
}

func (c *Coordinator) Hand(side Side) *Hand { return c.hands[side] }

func (c *Coordinator) Stats(side Side) SideStats { return c.agg.Stats(side) }

func (c *Coordinator) Score(side Side) int { return c.agg.Score(side) }

// Machine exposes the in-progress round machine, nil outside a card-game.
func (c *Coordinator) Machine() *RoundMachine { return c.machine }

// PendingCard returns the card index a side has picked for the current slot,
// or -1 if it has not picked yet.
func (c *Coordinator) PendingCard(side Side) int {
	if c.pendingCards[side] == nil {
		return -1
	}
	return *c.pendingCards[side]
}

// SelectCard commits a side's card for the current card-game slot. When both
// sides have picked, the slot transitions to property selection.
func (c *Coordinator) SelectCard(side Side, index int) error {
	if c.phase != PhaseCardSelection {
		return fmt.Errorf("%w: cannot select a card during %s", ErrPhaseViolation, c.phase)
	}
	if c.pendingCards[side] != nil {
		return fmt.Errorf("%w: %s already picked a card for this game", ErrPhaseViolation, side)
	}
	if _, err := c.hands[side].Card(index); err != nil {
		return err
	}
	if c.hands[side].IsUsed(index) {
		return fmt.Errorf("%w: %s card %d", ErrCardAlreadyUsed, side, index)
	}

	i := index
	c.pendingCards[side] = &i

	if c.pendingCards[SideA] != nil && c.pendingCards[SideB] != nil {
		c.beginCardGame()
	}
	return nil
}

func (c *Coordinator) beginCardGame() {
	idxA, idxB := *c.pendingCards[SideA], *c.pendingCards[SideB]
	c.hands[SideA].markUsed(idxA)
	c.hands[SideB].markUsed(idxB)

	cardA, _ := c.hands[SideA].Card(idxA)
	cardB, _ := c.hands[SideB].Card(idxB)

	// Both cards come from validated hands, so the machine cannot reject them.
	c.machine, _ = NewRoundMachine(cardA, cardB)
	c.agg.BeginCardGame()
	c.phase = PhasePropertySelection
}

// SelectProperty commits a side's property for the current round. When the
// round resolves the slot transitions to the round-result phase.
func (c *Coordinator) SelectProperty(side Side, prop card.Property) error {
	if c.phase != PhasePropertySelection {
		return fmt.Errorf("%w: cannot select a property during %s", ErrPhaseViolation, c.phase)
	}
	if err := c.machine.CommitProperty(side, prop); err != nil {
		return err
	}
	c.afterCommit()
	return nil
}

// AutoPlayFinalRound short-circuits round three when each side has only its
// last property left. Driver policy; the machine enforces legality.
func (c *Coordinator) AutoPlayFinalRound() error {
	if c.phase != PhasePropertySelection {
		return fmt.Errorf("%w: cannot auto-play during %s", ErrPhaseViolation, c.phase)
	}
	if err := c.machine.AutoPlayFinal(); err != nil {
		return err
	}
	c.afterCommit()
	return nil
}

func (c *Coordinator) afterCommit() {
	if c.machine.State() != RoundResolved {
		return
	}
	rounds := c.machine.Rounds()
	c.agg.RecordRound(rounds[len(rounds)-1])
	c.phase = PhaseRoundResult
}

// AdvanceToNextRound starts the next round of the current card-game.
func (c *Coordinator) AdvanceToNextRound() error {
	if c.phase != PhaseRoundResult {
		return fmt.Errorf("%w: cannot advance the round during %s", ErrPhaseViolation, c.phase)
	}
	if c.machine.AllRoundsComplete() {
		return fmt.Errorf("%w: card-game %d is complete", ErrPhaseViolation, c.CurrentGame())
	}
	if err := c.machine.Advance(); err != nil {
		return err
	}
	c.phase = PhasePropertySelection
	return nil
}

// CompleteCardGame freezes the current card-game after its third round. The
// third completed card-game ends the match.
func (c *Coordinator) CompleteCardGame() error {
	if c.phase != PhaseRoundResult {
		return fmt.Errorf("%w: cannot complete the card-game during %s", ErrPhaseViolation, c.phase)
	}
	if !c.machine.AllRoundsComplete() {
		return fmt.Errorf("%w: card-game %d still has rounds to play", ErrPhaseViolation, c.CurrentGame())
	}

	rounds := c.machine.Rounds()
	var ptsA, ptsB int
	for _, r := range rounds {
		ptsA += r.PointsA
		ptsB += r.PointsB
	}
	result := CardGameResult{
		CardA:   c.machine.Card(SideA),
		CardB:   c.machine.Card(SideB),
		Rounds:  rounds,
		PointsA: ptsA,
		PointsB: ptsB,
		Winner:  outcomeFor(ptsA, ptsB),
	}
	c.games = append(c.games, result)
	c.agg.RecordCardGame(result.Winner)
	c.machine = nil
	c.pendingCards[SideA] = nil
	c.pendingCards[SideB] = nil

	if len(c.games) == CardGamesPerMatch {
		c.finish()
		return nil
	}
	c.phase = PhaseCardComplete
	return nil
}

// AdvanceToNextCard opens card selection for the next card-game slot.
func (c *Coordinator) AdvanceToNextCard() error {
	if c.phase != PhaseCardComplete {
		return fmt.Errorf("%w: cannot advance the card during %s", ErrPhaseViolation, c.phase)
	}
	c.gameIndex++
	c.phase = PhaseCardSelection
	return nil
}

func (c *Coordinator) finish() {
	c.finishedAt = time.Now()
	c.freezeResult()
}

func (c *Coordinator) freezeResult() {
	c.phase = PhaseGameOver

	games := make([]CardGameResult, len(c.games))
	copy(games, c.games)

	statsA, statsB := c.agg.Stats(SideA), c.agg.Stats(SideB)
	c.result = &MatchResult{
		Winner:   outcomeFor(statsA.Total(), statsB.Total()),
		ScoreA:   statsA.Total(),
		ScoreB:   statsB.Total(),
		StatsA:   statsA,
		StatsB:   statsB,
		Games:    games,
		Duration: c.finishedAt.Sub(c.startedAt),
	}
}

// CompleteMatch returns the frozen result once the match is over.
func (c *Coordinator) CompleteMatch() (*MatchResult, error) {
	if c.phase != PhaseGameOver {
		return nil, fmt.Errorf("%w: match is still in %s", ErrPhaseViolation, c.phase)
	}
	return c.result, nil
}

// GameResults returns the completed card-game breakdowns so far.
func (c *Coordinator) GameResults() []CardGameResult {
	out := make([]CardGameResult, len(c.games))
	copy(out, c.games)
	return out
}

// Snapshot is the light driver-facing view of the match.
type Snapshot struct {
	Phase       Phase  `json:"phase"`
	GameNumber  int    `json:"gameNumber"`
	RoundNumber int    `json:"roundNumber"`
	ScoreA      int    `json:"scoreA"`
	ScoreB      int    `json:"scoreB"`
	Instruction string `json:"instruction"`
}

func (c *Coordinator) Snapshot() Snapshot {
	return Snapshot{
		Phase:       c.phase,
		GameNumber:  c.CurrentGame(),
		RoundNumber: c.CurrentRound(),
		ScoreA:      c.Score(SideA),
		ScoreB:      c.Score(SideB),
		Instruction: c.Instruction(),
	}
}

// Instruction is a human-readable prompt for the current phase.
func (c *Coordinator) Instruction() string {
	switch c.phase {
	case PhaseCardSelection:
		return fmt.Sprintf("Card-game %d of %d: both sides pick an unused card.", c.CurrentGame(), CardGamesPerMatch)
	case PhasePropertySelection:
		return fmt.Sprintf("Round %d of %d: both sides pick an unused property.", c.CurrentRound(), RoundsPerCardGame)
	case PhaseRoundResult:
		rounds := c.machine.Rounds()
		last := rounds[len(rounds)-1]
		return fmt.Sprintf("Round %d resolved: %s.", c.CurrentRound(), last.Rationale)
	case PhaseCardComplete:
		last := c.games[len(c.games)-1]
		return fmt.Sprintf("Card-game %d finished %d-%d. Advance to the next card.", len(c.games), last.PointsA, last.PointsB)
	case PhaseGameOver:
		return fmt.Sprintf("Match over: %d-%d.", c.Score(SideA), c.Score(SideB))
	}
	return ""
}
