package match

import (
	"fmt"
	"time"

	"triad/internal/game/card"
)

// State is the plain-data export of a match, the only sanctioned way to move
// match state between coordinator instances (save/resume). Everything else in
// the coordinator is derived from it on import.
type State struct {
	Phase        Phase         `json:"phase"`
	GameIndex    int           `json:"gameIndex"`
	Bonuses      BonusConfig   `json:"bonuses"`
	StartedAt    time.Time     `json:"startedAt"`
	FinishedAt   *time.Time    `json:"finishedAt,omitempty"`
	Hands        [2]HandState  `json:"hands"`
	PendingCards [2]*int       `json:"pendingCards"`
	Current      *MachineState `json:"currentGame,omitempty"`
	History      []GameRecord  `json:"history"`
}

// CardRef identifies a card by value; ids are re-derived from the catalog.
type CardRef struct {
	Deception uint8 `json:"deception"`
	Magic     uint8 `json:"magic"`
	Attack    uint8 `json:"attack"`
}

type HandState struct {
	Cards []CardRef `json:"cards"`
	Used  []bool    `json:"used"`
}

type MachineState struct {
	State   RoundState    `json:"state"`
	Round   int           `json:"round"`
	Pending [2]*string    `json:"pending"`
	Rounds  []RoundRecord `json:"rounds"`
}

type RoundRecord struct {
	PropA   string  `json:"propA"`
	ValA    int     `json:"valA"`
	PropB   string  `json:"propB"`
	ValB    int     `json:"valB"`
	PointsA int     `json:"pointsA"`
	PointsB int     `json:"pointsB"`
	Outcome Outcome `json:"outcome"`
}

type GameRecord struct {
	CardA   CardRef       `json:"cardA"`
	CardB   CardRef       `json:"cardB"`
	Rounds  []RoundRecord `json:"rounds"`
	PointsA int           `json:"pointsA"`
	PointsB int           `json:"pointsB"`
	Winner  Outcome       `json:"winner"`
}

func cardRef(c *card.Card) CardRef {
	return CardRef{Deception: c.Deception(), Magic: c.Magic(), Attack: c.Attack()}
}

func roundRecord(r Round) RoundRecord {
	return RoundRecord{
		PropA:   string(r.PropA),
		ValA:    r.ValA,
		PropB:   string(r.PropB),
		ValB:    r.ValB,
		PointsA: r.PointsA,
		PointsB: r.PointsB,
		Outcome: r.Outcome,
	}
}

// ExportState captures the coordinator as a plain data tree.
func (c *Coordinator) ExportState() State {
	st := State{
		Phase:     c.phase,
		GameIndex: c.gameIndex,
		Bonuses:   c.agg.Bonuses(),
		StartedAt: c.startedAt,
	}
	if !c.finishedAt.IsZero() {
		t := c.finishedAt
		st.FinishedAt = &t
	}

	for _, side := range []Side{SideA, SideB} {
		hs := HandState{
			Cards: make([]CardRef, 0, HandSize),
			Used:  make([]bool, 0, HandSize),
		}
		for i, hc := range c.hands[side].Cards() {
			hs.Cards = append(hs.Cards, cardRef(hc))
			hs.Used = append(hs.Used, c.hands[side].IsUsed(i))
		}
		st.Hands[side] = hs

		if c.pendingCards[side] != nil {
			i := *c.pendingCards[side]
			st.PendingCards[side] = &i
		}
	}

	if c.machine != nil {
		ms := &MachineState{
			State: c.machine.state,
			Round: c.machine.round,
		}
		for _, side := range []Side{SideA, SideB} {
			if c.machine.pending[side] != nil {
				s := string(*c.machine.pending[side])
				ms.Pending[side] = &s
			}
		}
		for _, r := range c.machine.rounds {
			ms.Rounds = append(ms.Rounds, roundRecord(r))
		}
		st.Current = ms
	}

	for _, g := range c.games {
		gr := GameRecord{
			CardA:   cardRef(g.CardA),
			CardB:   cardRef(g.CardB),
			PointsA: g.PointsA,
			PointsB: g.PointsB,
			Winner:  g.Winner,
		}
		for _, r := range g.Rounds {
			gr.Rounds = append(gr.Rounds, roundRecord(r))
		}
		st.History = append(st.History, gr)
	}

	return st
}

// ImportState rebuilds a coordinator from an exported tree. Imported state is
// never trusted: every invariant is re-checked and any inconsistency fails
// with ErrCorruptState.
func ImportState(st State) (*Coordinator, error) {
	if !st.Phase.isValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrCorruptState, string(st.Phase))
	}
	if st.GameIndex < 0 || st.GameIndex >= CardGamesPerMatch {
		return nil, fmt.Errorf("%w: game index %d out of range", ErrCorruptState, st.GameIndex)
	}
	if st.StartedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing start time", ErrCorruptState)
	}

	wantHistory := st.GameIndex
	switch st.Phase {
	case PhaseCardComplete:
		// Completing the last card-game goes straight to game over, so a full
		// history can never sit in this phase.
		if st.GameIndex == CardGamesPerMatch-1 {
			return nil, fmt.Errorf("%w: all %d card-games recorded but the match is not over", ErrCorruptState, CardGamesPerMatch)
		}
		wantHistory = st.GameIndex + 1
	case PhaseGameOver:
		wantHistory = CardGamesPerMatch
		if st.GameIndex != CardGamesPerMatch-1 {
			return nil, fmt.Errorf("%w: finished match has game index %d", ErrCorruptState, st.GameIndex)
		}
		if st.FinishedAt == nil {
			return nil, fmt.Errorf("%w: finished match has no finish time", ErrCorruptState)
		}
	}
	if len(st.History) != wantHistory {
		return nil, fmt.Errorf("%w: %d completed card-games recorded, want %d for phase %s",
			ErrCorruptState, len(st.History), wantHistory, st.Phase)
	}

	needMachine := st.Phase == PhasePropertySelection || st.Phase == PhaseRoundResult
	if needMachine && st.Current == nil {
		return nil, fmt.Errorf("%w: phase %s without a card-game in progress", ErrCorruptState, st.Phase)
	}
	if !needMachine && st.Current != nil {
		return nil, fmt.Errorf("%w: phase %s with a card-game in progress", ErrCorruptState, st.Phase)
	}

	hands, err := importHands(st.Hands)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		phase:     st.Phase,
		hands:     hands,
		gameIndex: st.GameIndex,
		agg:       NewAggregator(st.Bonuses),
		startedAt: st.StartedAt,
	}
	if st.FinishedAt != nil {
		c.finishedAt = *st.FinishedAt
	}

	// Track which hand slots the recorded card-games consumed, so the used
	// flags can be cross-checked afterwards.
	consumed := [2]map[int]bool{make(map[int]bool), make(map[int]bool)}

	for i, gr := range st.History {
		game, err := importGame(i, gr, hands, consumed)
		if err != nil {
			return nil, err
		}
		c.games = append(c.games, game)
		c.agg.BeginCardGame()
		for _, r := range game.Rounds {
			c.agg.RecordRound(r)
		}
		c.agg.RecordCardGame(game.Winner)
	}

	if st.Current != nil {
		machine, err := importMachine(st.Current, hands, consumed)
		if err != nil {
			return nil, err
		}
		c.machine = machine
		c.agg.BeginCardGame()
		for _, r := range machine.rounds {
			c.agg.RecordRound(r)
		}
	}

	if err := checkUsedFlags(hands, consumed); err != nil {
		return nil, err
	}

	if err := importPendingCards(c, st); err != nil {
		return nil, err
	}

	if st.Phase == PhaseGameOver {
		c.freezeResult()
	}
	return c, nil
}

func importHands(states [2]HandState) ([2]*Hand, error) {
	var hands [2]*Hand
	for side, hs := range states {
		if len(hs.Cards) != HandSize || len(hs.Used) != HandSize {
			return hands, fmt.Errorf("%w: hand %d has %d cards and %d used flags", ErrCorruptState, side, len(hs.Cards), len(hs.Used))
		}
		var cards [HandSize]*card.Card
		for i, ref := range hs.Cards {
			c, err := card.NewCard(ref.Deception, ref.Magic, ref.Attack)
			if err != nil {
				return hands, fmt.Errorf("%w: hand %d card %d: %v", ErrCorruptState, side, i, err)
			}
			cards[i] = c
		}
		h, err := NewHand(cards)
		if err != nil {
			return hands, fmt.Errorf("%w: hand %d: %v", ErrCorruptState, side, err)
		}
		for i, used := range hs.Used {
			if used {
				h.markUsed(i)
			}
		}
		hands[side] = h
	}
	return hands, nil
}

// resolveHandCard finds the hand slot holding the referenced card and claims
// it, rejecting cards that are not in the hand or already claimed.
func resolveHandCard(side Side, ref CardRef, hands [2]*Hand, consumed [2]map[int]bool) (*card.Card, error) {
	for i, hc := range hands[side].Cards() {
		if hc.Deception() == ref.Deception && hc.Magic() == ref.Magic && hc.Attack() == ref.Attack {
			if consumed[side][i] {
				return nil, fmt.Errorf("%w: %s card %s recorded in two card-games", ErrCorruptState, side, hc.Key())
			}
			consumed[side][i] = true
			return hc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s played a card that is not in its hand", ErrCorruptState, side)
}

// importRound re-validates and re-resolves one recorded round against the two
// cards that fought it. Recorded points must match the scoring rule exactly.
func importRound(rr RoundRecord, cardA, cardB *card.Card) (Round, error) {
	propA, err := card.ParseProperty(rr.PropA)
	if err != nil {
		return Round{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	propB, err := card.ParseProperty(rr.PropB)
	if err != nil {
		return Round{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if rr.ValA != int(cardA.Value(propA)) || rr.ValB != int(cardB.Value(propB)) {
		return Round{}, fmt.Errorf("%w: recorded values do not match the cards played", ErrCorruptState)
	}
	ptsA, ptsB, err := card.Score(propA, rr.ValA, propB, rr.ValB)
	if err != nil {
		return Round{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if ptsA != rr.PointsA || ptsB != rr.PointsB {
		return Round{}, fmt.Errorf("%w: recorded points (%d,%d) disagree with the scoring rule (%d,%d)",
			ErrCorruptState, rr.PointsA, rr.PointsB, ptsA, ptsB)
	}
	if !rr.Outcome.isValid() || rr.Outcome != outcomeFor(ptsA, ptsB) {
		return Round{}, fmt.Errorf("%w: recorded outcome %q disagrees with the points", ErrCorruptState, string(rr.Outcome))
	}
	return Round{
		PropA:     propA,
		ValA:      rr.ValA,
		PropB:     propB,
		ValB:      rr.ValB,
		PointsA:   ptsA,
		PointsB:   ptsB,
		Outcome:   outcomeFor(ptsA, ptsB),
		Rationale: card.Explain(propA, rr.ValA, propB, rr.ValB),
	}, nil
}

func importGame(index int, gr GameRecord, hands [2]*Hand, consumed [2]map[int]bool) (CardGameResult, error) {
	cardA, err := resolveHandCard(SideA, gr.CardA, hands, consumed)
	if err != nil {
		return CardGameResult{}, err
	}
	cardB, err := resolveHandCard(SideB, gr.CardB, hands, consumed)
	if err != nil {
		return CardGameResult{}, err
	}
	if len(gr.Rounds) != RoundsPerCardGame {
		return CardGameResult{}, fmt.Errorf("%w: card-game %d has %d rounds", ErrCorruptState, index+1, len(gr.Rounds))
	}

	game := CardGameResult{CardA: cardA, CardB: cardB}
	usedA := make(map[card.Property]bool)
	usedB := make(map[card.Property]bool)
	for _, rr := range gr.Rounds {
		r, err := importRound(rr, cardA, cardB)
		if err != nil {
			return CardGameResult{}, err
		}
		if usedA[r.PropA] || usedB[r.PropB] {
			return CardGameResult{}, fmt.Errorf("%w: card-game %d repeats a property", ErrCorruptState, index+1)
		}
		usedA[r.PropA] = true
		usedB[r.PropB] = true
		game.Rounds = append(game.Rounds, r)
		game.PointsA += r.PointsA
		game.PointsB += r.PointsB
	}
	if game.PointsA != gr.PointsA || game.PointsB != gr.PointsB {
		return CardGameResult{}, fmt.Errorf("%w: card-game %d totals disagree with its rounds", ErrCorruptState, index+1)
	}
	game.Winner = outcomeFor(game.PointsA, game.PointsB)
	if gr.Winner != game.Winner {
		return CardGameResult{}, fmt.Errorf("%w: card-game %d records the wrong winner", ErrCorruptState, index+1)
	}
	return game, nil
}

func importMachine(ms *MachineState, hands [2]*Hand, consumed [2]map[int]bool) (*RoundMachine, error) {
	// The in-progress machine exports only the hand indices it locked via the
	// pending-card mechanism being long resolved; recover its cards from the
	// first unclaimed used slot on each side.
	cardA, err := claimCurrentCard(SideA, hands, consumed)
	if err != nil {
		return nil, err
	}
	cardB, err := claimCurrentCard(SideB, hands, consumed)
	if err != nil {
		return nil, err
	}

	if len(ms.Rounds) > RoundsPerCardGame {
		return nil, fmt.Errorf("%w: card-game in progress has %d rounds", ErrCorruptState, len(ms.Rounds))
	}
	switch ms.State {
	case RoundResolved:
		if len(ms.Rounds) == 0 || ms.Round != len(ms.Rounds) {
			return nil, fmt.Errorf("%w: resolved round %d with %d results", ErrCorruptState, ms.Round, len(ms.Rounds))
		}
	case RoundAwaitingSelections:
		if ms.Round != len(ms.Rounds)+1 || ms.Round > RoundsPerCardGame {
			return nil, fmt.Errorf("%w: awaiting round %d with %d results", ErrCorruptState, ms.Round, len(ms.Rounds))
		}
	default:
		return nil, fmt.Errorf("%w: unknown round state %q", ErrCorruptState, string(ms.State))
	}

	m := &RoundMachine{
		cards: [2]*card.Card{cardA, cardB},
		state: ms.State,
		round: ms.Round,
		used: [2]map[card.Property]bool{
			make(map[card.Property]bool),
			make(map[card.Property]bool),
		},
	}
	for _, rr := range ms.Rounds {
		r, err := importRound(rr, cardA, cardB)
		if err != nil {
			return nil, err
		}
		if m.used[SideA][r.PropA] || m.used[SideB][r.PropB] {
			return nil, fmt.Errorf("%w: card-game in progress repeats a property", ErrCorruptState)
		}
		m.used[SideA][r.PropA] = true
		m.used[SideB][r.PropB] = true
		m.rounds = append(m.rounds, r)
	}

	if ms.State == RoundResolved {
		// A resolved machine's pending pair is always the last round's pair.
		last := m.rounds[len(m.rounds)-1]
		pa, pb := last.PropA, last.PropB
		m.pending[SideA] = &pa
		m.pending[SideB] = &pb
		return m, nil
	}

	for side, raw := range ms.Pending {
		if raw == nil {
			continue
		}
		prop, err := card.ParseProperty(*raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		if m.used[Side(side)][prop] {
			return nil, fmt.Errorf("%w: pending property %s was already played", ErrCorruptState, prop)
		}
		p := prop
		m.pending[Side(side)] = &p
		m.used[Side(side)][prop] = true
	}
	if m.pending[SideA] != nil && m.pending[SideB] != nil {
		return nil, fmt.Errorf("%w: both sides committed but the round is not resolved", ErrCorruptState)
	}
	return m, nil
}

func claimCurrentCard(side Side, hands [2]*Hand, consumed [2]map[int]bool) (*card.Card, error) {
	for _, i := range usedIndices(hands[side]) {
		if !consumed[side][i] {
			consumed[side][i] = true
			c, _ := hands[side].Card(i)
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no used card left for the card-game in progress", ErrCorruptState, side)
}

func usedIndices(h *Hand) []int {
	var out []int
	for i := 0; i < HandSize; i++ {
		if h.IsUsed(i) {
			out = append(out, i)
		}
	}
	return out
}

// checkUsedFlags rejects hands that mark cards used without a card-game to
// account for them.
func checkUsedFlags(hands [2]*Hand, consumed [2]map[int]bool) error {
	for _, side := range []Side{SideA, SideB} {
		if len(usedIndices(hands[side])) != len(consumed[side]) {
			return fmt.Errorf("%w: %s marks more cards used than were played", ErrCorruptState, side)
		}
	}
	return nil
}

func importPendingCards(c *Coordinator, st State) error {
	for side, idx := range st.PendingCards {
		if idx == nil {
			continue
		}
		if st.Phase != PhaseCardSelection {
			return fmt.Errorf("%w: pending card selection outside %s", ErrCorruptState, PhaseCardSelection)
		}
		if *idx < 0 || *idx >= HandSize {
			return fmt.Errorf("%w: pending card index %d out of range", ErrCorruptState, *idx)
		}
		if c.hands[side].IsUsed(*idx) {
			return fmt.Errorf("%w: pending card %d was already played", ErrCorruptState, *idx)
		}
		i := *idx
		c.pendingCards[side] = &i
	}
	if c.pendingCards[SideA] != nil && c.pendingCards[SideB] != nil {
		return fmt.Errorf("%w: both sides picked cards but the card-game never started", ErrCorruptState)
	}
	return nil
}
